package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
)

// Base provides shared functionality for all handlers.
type Base struct {
	registry *dashboard.Registry
}

// NewBase creates a new base handler over the controller registry.
func NewBase(registry *dashboard.Registry) *Base {
	return &Base{registry: registry}
}

// Controller returns the view controller for the request's profile.
func (b *Base) Controller(c *gin.Context) *dashboard.Controller {
	return b.registry.Get(c.Request.Context(), middleware.ProfileID(c))
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// WriteError writes an error response with the given status code and
// stops the handler chain.
func (b *Base) WriteError(c *gin.Context, status int, err dto.APIError) {
	c.AbortWithStatusJSON(status, err)
}

// WriteFrame writes a rendered frame for the request's profile.
func (b *Base) WriteFrame(c *gin.Context, f dashboard.Frame) {
	b.WriteJSON(c, http.StatusOK, dto.DashboardResponse{
		ProfileID: middleware.ProfileID(c),
		Frame:     f,
	})
}
