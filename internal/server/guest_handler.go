package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"go.uber.org/zap"
)

type GuestHandler struct {
	service GuestLister
	logger  *zap.Logger
}

func NewGuestHandler(service GuestLister, logger *zap.Logger) *GuestHandler {
	return &GuestHandler{
		service: service,
		logger:  logger,
	}
}

func (h *GuestHandler) List(c *gin.Context) {
	if !h.available(c) {
		return
	}

	guests, err := h.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list guests", zap.Error(err))
		c.JSON(http.StatusBadGateway, domain.ErrorResponse{
			Error:   "guest_list_unavailable",
			Message: "Could not load the guest spreadsheet",
		})
		return
	}

	c.JSON(http.StatusOK, domain.GuestListResponse{
		Guests: guests,
		Count:  len(guests),
	})
}

func (h *GuestHandler) Categories(c *gin.Context) {
	if !h.available(c) {
		return
	}

	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list guest categories", zap.Error(err))
		c.JSON(http.StatusBadGateway, domain.ErrorResponse{
			Error:   "guest_list_unavailable",
			Message: "Could not load the guest spreadsheet",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

func (h *GuestHandler) available(c *gin.Context) bool {
	if h.service == nil || !h.service.Configured() {
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{
			Error:   "guest_list_not_configured",
			Message: "No guest spreadsheet is configured",
		})
		return false
	}
	return true
}
