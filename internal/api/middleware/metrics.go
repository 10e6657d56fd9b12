package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

// Metrics counts requests by matched route and status code.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
