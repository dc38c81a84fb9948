package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"go.uber.org/zap"
)

const healthCacheTimeout = 2 * time.Second

type InvitationHandler struct {
	page       InvitationRenderer
	caricature CaricatureGenerator
	guests     GuestLister
	cache      CacheStatus
	now        func() time.Time
	logger     *zap.Logger
}

func NewInvitationHandler(page InvitationRenderer, caricature CaricatureGenerator, guests GuestLister, cache CacheStatus, now func() time.Time, logger *zap.Logger) *InvitationHandler {
	return &InvitationHandler{
		page:       page,
		caricature: caricature,
		guests:     guests,
		cache:      cache,
		now:        now,
		logger:     logger,
	}
}

// Page serves the landing page with the ?to= greeting filled in.
func (h *InvitationHandler) Page(c *gin.Context) {
	if h.page == nil {
		c.Status(http.StatusNotFound)
		return
	}

	html, err := h.page.Render(c.Query("to"))
	if err != nil {
		h.logger.Error("Failed to render invitation page", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to render invitation")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (h *InvitationHandler) Countdown(c *gin.Context) {
	if h.page == nil {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "countdown_not_configured", Message: "No wedding date is configured"})
		return
	}

	countdown, ok := h.page.Countdown(h.now())
	if !ok {
		c.JSON(http.StatusNotFound, domain.ErrorResponse{
			Error:   "countdown_not_configured",
			Message: "No wedding date is configured",
		})
		return
	}

	c.JSON(http.StatusOK, countdown)
}

func (h *InvitationHandler) Health(c *gin.Context) {
	response := domain.HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().Unix(),
	}
	if h.caricature != nil {
		response.Provider = h.caricature.ProviderName()
		response.ProviderReady = h.caricature.Ready()
	}
	if h.guests != nil {
		response.GuestsEnabled = h.guests.Configured()
	}

	response.Cache = domain.CacheDisabled
	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCacheTimeout)
		defer cancel()
		if h.cache.IsConnected(ctx) {
			response.Cache = domain.CacheConnected
		} else {
			response.Cache = domain.CacheUnreachable
		}
	}

	c.JSON(http.StatusOK, response)
}
