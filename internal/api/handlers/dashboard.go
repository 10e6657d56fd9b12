package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/domain/filter"
	"github.com/eshaffer321/orders-dashboard/internal/domain/preferences"
	"github.com/eshaffer321/orders-dashboard/internal/domain/sorter"
)

// DashboardHandler turns HTTP requests into view controller events.
type DashboardHandler struct {
	*Base
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(registry *dashboard.Registry) *DashboardHandler {
	return &DashboardHandler{
		Base: NewBase(registry),
	}
}

// Get handles GET /api/dashboard - returns the current full frame.
func (h *DashboardHandler) Get(c *gin.Context) {
	h.WriteFrame(c, h.Controller(c).Snapshot())
}

// SetQuery handles PUT /api/dashboard/query.
func (h *DashboardHandler) SetQuery(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	q := filter.Query{Search: req.Search, Status: req.Status, Payment: req.Payment}
	h.WriteFrame(c, h.Controller(c).SetQuery(c.Request.Context(), q))
}

// RemoveFilter handles DELETE /api/dashboard/filters/:type.
func (h *DashboardHandler) RemoveFilter(c *gin.Context) {
	chip, ok := filter.ParseChipType(c.Param("type"))
	if !ok {
		h.WriteError(c, http.StatusNotFound, dto.NotFoundError("filter "+c.Param("type")))
		return
	}

	h.WriteFrame(c, h.Controller(c).RemoveChip(c.Request.Context(), chip))
}

// SetSort handles PUT /api/dashboard/sort.
func (h *DashboardHandler) SetSort(c *gin.Context) {
	var req dto.SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	key, ok := sorter.ParseKey(req.Key)
	if !ok {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError("unknown sort key: "+req.Key))
		return
	}

	ctrl := h.Controller(c)
	if req.Direction == "" {
		h.WriteFrame(c, ctrl.ToggleSort(c.Request.Context(), key))
		return
	}

	dir, _ := sorter.ParseDirection(req.Direction)
	h.WriteFrame(c, ctrl.SetSort(c.Request.Context(), sorter.Spec{Key: key, Direction: dir}))
}

// SetPage handles PUT /api/dashboard/page.
func (h *DashboardHandler) SetPage(c *gin.Context) {
	var req dto.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	if req.Page == nil && req.PageSize == nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("page or page_size is required"))
		return
	}

	ctx := c.Request.Context()
	ctrl := h.Controller(c)

	var f dashboard.Frame
	if req.PageSize != nil {
		f = ctrl.SetPageSize(ctx, *req.PageSize)
	}
	if req.Page != nil {
		f = ctrl.SetPage(ctx, *req.Page)
	}
	h.WriteFrame(c, f)
}

// NextPage handles POST /api/dashboard/page/next.
func (h *DashboardHandler) NextPage(c *gin.Context) {
	h.WriteFrame(c, h.Controller(c).NextPage(c.Request.Context()))
}

// PrevPage handles POST /api/dashboard/page/prev.
func (h *DashboardHandler) PrevPage(c *gin.Context) {
	h.WriteFrame(c, h.Controller(c).PrevPage(c.Request.Context()))
}

// SetTheme handles PUT /api/dashboard/theme.
func (h *DashboardHandler) SetTheme(c *gin.Context) {
	var req dto.ThemeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.WriteError(c, http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
	}

	ctx := c.Request.Context()
	ctrl := h.Controller(c)

	var theme preferences.Theme
	if req.Theme == "" {
		theme = ctrl.ToggleTheme(ctx)
	} else {
		t, _ := preferences.ParseTheme(req.Theme)
		theme = ctrl.SetTheme(ctx, t)
	}

	h.WriteJSON(c, http.StatusOK, dto.ThemeResponse{
		ProfileID: middleware.ProfileID(c),
		Theme:     string(theme),
	})
}

// Clear handles DELETE /api/dashboard - resets filters, sort and paging.
func (h *DashboardHandler) Clear(c *gin.Context) {
	h.WriteFrame(c, h.Controller(c).ClearAll(c.Request.Context()))
}
