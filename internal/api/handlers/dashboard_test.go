package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/api/handlers"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/logging"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
)

func sampleOrders() []orders.Order {
	return []orders.Order{
		{ProductName: "Mini Drone", ProductNumber: "10", PaymentStatus: "Paid", Shipping: "Delivered", Qty: orders.NewNumber(1), UnitPrice: orders.NewNumber(50)},
		{ProductName: "Gimbal", ProductNumber: "2", PaymentStatus: "Due", Shipping: "Pending", Qty: orders.NewNumber(2), UnitPrice: orders.NewNumber(20)},
		{ProductName: "Battery", ProductNumber: "33", PaymentStatus: "Paid", Shipping: "Delivered", Qty: orders.NewNumber(3), UnitPrice: orders.NewNumber(5)},
	}
}

func newRouter(t *testing.T) (*gin.Engine, *storage.MockRepository) {
	t.Helper()
	repo := storage.NewMockRepository(sampleOrders()...)
	registry := dashboard.NewRegistry(sampleOrders(), repo, dashboard.Options{Logger: logging.Discard()})

	h := handlers.NewDashboardHandler(registry)
	o := handlers.NewOrdersHandler(registry, nil, logging.Discard())

	router := gin.New()
	router.Use(middleware.Profile())
	router.GET("/dashboard", h.Get)
	router.PUT("/dashboard/sort", h.SetSort)
	router.PUT("/dashboard/query", h.SetQuery)
	router.GET("/export", o.Export)
	return router, repo
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(middleware.ProfileHeader, "tester")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestDashboardHandler_Get(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "tester", resp.ProfileID)
	assert.Equal(t, "Showing 1-3 of 3 (Total: 3)", resp.Frame.Summary)
	require.NotNil(t, resp.Frame.Cards)
	assert.Equal(t, 2, resp.Frame.Cards.Delivered)
	require.NotNil(t, resp.Frame.Charts)
	assert.Equal(t, []string{"Mini Drone", "Gimbal", "Battery"}, resp.Frame.Charts.TopProducts.Labels)
}

func TestDashboardHandler_SortNumeric(t *testing.T) {
	router, repo := newRouter(t)

	rec := serve(router, http.MethodPut, "/dashboard/sort", `{"key":"ProductNumber","direction":"asc"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	var numbers []string
	for _, o := range resp.Frame.Table.Items {
		numbers = append(numbers, o.ProductNumber)
	}
	assert.Equal(t, []string{"2", "10", "33"}, numbers)
	assert.Equal(t, "ProductNumber", repo.Preferences("tester")["inv_sortKey"])
}

func TestDashboardHandler_QueryDefaultsOmittedFields(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodPut, "/dashboard/query", `{"search":"  GIM "}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp dto.DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Frame.Table.Total)
	assert.Equal(t, "all", resp.Frame.State.Query.Status)
	assert.Equal(t, "all", resp.Frame.State.Query.Payment)
	require.Len(t, resp.Frame.Chips, 1)
	assert.Equal(t, "Search: gim", resp.Frame.Chips[0].Label)
}

func TestOrdersHandler_Export(t *testing.T) {
	router, _ := newRouter(t)

	rec := serve(router, http.MethodGet, "/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	today := time.Now().UTC().Format("2006-01-02")
	assert.Equal(t, `attachment; filename="orders-`+today+`.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t,
		"Product Name,Product Number,Payment,Status\nMini Drone,10,Paid,Delivered\nGimbal,2,Due,Pending\nBattery,33,Paid,Delivered",
		rec.Body.String())
}

func TestBase_Controller(t *testing.T) {
	registry := dashboard.NewRegistry(sampleOrders(), storage.NewMockRepository(), dashboard.Options{Logger: logging.Discard()})
	base := handlers.NewBase(registry)

	router := gin.New()
	router.Use(middleware.Profile())
	router.GET("/", func(c *gin.Context) {
		ctrl := base.Controller(c)
		c.String(http.StatusOK, ctrl.ProfileID())
	})

	rec := serve(router, http.MethodGet, "/", "")
	assert.Equal(t, "tester", rec.Body.String())
	assert.Same(t, registry.Get(context.Background(), "tester"), registry.Get(context.Background(), "tester"))
}
