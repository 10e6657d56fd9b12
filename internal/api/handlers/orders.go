package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/domain/export"
	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

// OrdersHandler handles order export requests.
type OrdersHandler struct {
	*Base
	metrics *observability.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(registry *dashboard.Registry, metrics *observability.Metrics, logger *slog.Logger) *OrdersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrdersHandler{
		Base:    NewBase(registry),
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Export handles GET /api/orders/export?format=csv|xlsx - downloads the
// current view, or every record when the view is empty.
func (h *OrdersHandler) Export(c *gin.Context) {
	format, ok := export.ParseFormat(c.Query("format"))
	if !ok {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("unsupported export format: "+c.Query("format")))
		return
	}

	rows := h.Controller(c).ExportRows()

	var buf bytes.Buffer
	if err := export.Write(&buf, format, rows); err != nil {
		h.logger.Error("export failed", "format", format, "error", err)
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	filename := export.Filename(format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())

	h.metrics.Export(string(format))
	h.logger.Debug("export written", "format", format, "rows", len(rows), "bytes", buf.Len())
}
