package dto

import (
	"time"

	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Orders    int    `json:"orders"`
}

// NewHealthResponse creates a healthy response.
func NewHealthResponse(orders int) HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Orders:    orders,
	}
}

// DashboardResponse wraps a rendered frame.
type DashboardResponse struct {
	ProfileID string          `json:"profile_id"`
	Frame     dashboard.Frame `json:"frame"`
}

// ThemeResponse reports the stored theme.
type ThemeResponse struct {
	ProfileID string `json:"profile_id"`
	Theme     string `json:"theme"`
}
