package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"go.uber.org/zap"
)

type CaricatureHandler struct {
	service CaricatureGenerator
	logger  *zap.Logger
}

func NewCaricatureHandler(service CaricatureGenerator, logger *zap.Logger) *CaricatureHandler {
	return &CaricatureHandler{
		service: service,
		logger:  logger,
	}
}

// Generate answers 200 {success:true,image} or 500 {success:false,error}.
func (h *CaricatureHandler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.CaricatureLimits.MaxRequestBytes)

	var req domain.CaricatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid caricature request body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, domain.CaricatureResponse{
			Success: false,
			Error:   requestBodyError(err),
		})
		return
	}

	if h.service == nil {
		c.JSON(http.StatusInternalServerError, domain.CaricatureResponse{
			Success: false,
			Error:   "Caricature generation is not available",
		})
		return
	}

	result := h.service.Generate(c.Request.Context(), req)
	if !result.OK() {
		c.JSON(http.StatusInternalServerError, result.Response())
		return
	}

	c.JSON(http.StatusOK, result.Response())
}

func requestBodyError(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "Request body is too large"
	}
	return "Invalid request body"
}
