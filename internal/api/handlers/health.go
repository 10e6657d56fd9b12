package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	repo storage.OrderRepository
}

// NewHealthHandler creates a new health handler. The record store is
// queried on every check.
func NewHealthHandler(repo storage.OrderRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(c *gin.Context) {
	count, err := h.repo.CountOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewAPIError(dto.ErrCodeInternalError, "record store unavailable"))
		return
	}

	c.JSON(http.StatusOK, dto.NewHealthResponse(count))
}
