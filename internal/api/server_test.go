package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/orders-dashboard/internal/api"
	"github.com/eshaffer321/orders-dashboard/internal/api/dto"
	"github.com/eshaffer321/orders-dashboard/internal/api/middleware"
	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/domain/orders"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/logging"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/storage"
	"github.com/eshaffer321/orders-dashboard/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testOrders() []orders.Order {
	statuses := orders.ShippingStatuses
	list := make([]orders.Order, 12)
	for i := range list {
		list[i] = orders.Order{
			ProductName:   fmt.Sprintf("Drone %02d", i),
			ProductNumber: fmt.Sprintf("%d", 500+i),
			PaymentStatus: "Paid",
			Shipping:      statuses[i%len(statuses)],
			OrderDate:     "2024-02-01",
			Qty:           orders.NewNumber(1),
			UnitPrice:     orders.NewNumber(float64(i + 1)),
		}
	}
	list[3].ProductName = "Widget, A"
	return list
}

type testServer struct {
	handler http.Handler
	repo    *storage.MockRepository
	metrics *observability.Metrics
}

func newTestServer(t *testing.T, cfg api.Config) testServer {
	t.Helper()
	repo := storage.NewMockRepository(testOrders()...)
	metrics := observability.NewMetrics()
	logger := logging.Discard()

	registry, err := dashboard.LoadRegistry(context.Background(), repo, dashboard.Options{
		Metrics: metrics,
		Logger:  logger,
	})
	require.NoError(t, err)

	server := api.NewServer(cfg, registry, repo, metrics, logger)
	return testServer{handler: server.Router(), repo: repo, metrics: metrics}
}

func (ts testServer) do(t *testing.T, method, path, profile, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if profile != "" {
		req.Header.Set(middleware.ProfileHeader, profile)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeFrame(t *testing.T, rec *httptest.ResponseRecorder) dto.DashboardResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp dto.DashboardResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	rec := ts.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 12, resp.Orders)
}

func TestServer_DashboardFlow(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())
	const profile = "profile-1"

	resp := decodeFrame(t, ts.do(t, http.MethodGet, "/api/dashboard", profile, ""))
	assert.Equal(t, profile, resp.ProfileID)
	assert.Equal(t, dashboard.ScopeFull, resp.Frame.Scope)
	assert.Equal(t, "Showing 1-10 of 12 (Total: 12)", resp.Frame.Summary)

	resp = decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/query", profile, `{"status":"Delivered"}`))
	assert.Equal(t, 3, resp.Frame.Table.Total)
	assert.Equal(t, "all", resp.Frame.State.Query.Payment)
	require.Len(t, resp.Frame.Chips, 1)

	resp = decodeFrame(t, ts.do(t, http.MethodDelete, "/api/dashboard/filters/status", profile, ""))
	assert.Equal(t, 12, resp.Frame.Table.Total)
	assert.Empty(t, resp.Frame.Chips)

	resp = decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/sort", profile, `{"key":"unitPrice"}`))
	assert.Equal(t, "Drone 00", resp.Frame.Table.Items[0].ProductName)
	resp = decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/sort", profile, `{"key":"unitPrice"}`))
	assert.Equal(t, "Drone 11", resp.Frame.Table.Items[0].ProductName, "second click flips direction")
	resp = decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/sort", profile, `{"key":"unitPrice","direction":"asc"}`))
	assert.Equal(t, "Drone 00", resp.Frame.Table.Items[0].ProductName)

	resp = decodeFrame(t, ts.do(t, http.MethodPost, "/api/dashboard/page/next", profile, ""))
	assert.Equal(t, dashboard.ScopePage, resp.Frame.Scope)
	assert.Equal(t, 2, resp.Frame.Table.Page)
	assert.Len(t, resp.Frame.Table.Items, 2)
	assert.Nil(t, resp.Frame.Charts)

	resp = decodeFrame(t, ts.do(t, http.MethodPost, "/api/dashboard/page/prev", profile, ""))
	assert.Equal(t, 1, resp.Frame.Table.Page)

	resp = decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/page", profile, `{"page_size":5,"page":3}`))
	assert.Equal(t, 5, resp.Frame.Table.PageSize)
	assert.Equal(t, 3, resp.Frame.Table.Page)
	assert.Equal(t, "Showing 11-12 of 12 (Total: 12)", resp.Frame.Summary)

	resp = decodeFrame(t, ts.do(t, http.MethodDelete, "/api/dashboard", profile, ""))
	assert.Equal(t, 1, resp.Frame.State.Page)
	assert.Equal(t, 10, resp.Frame.State.PageSize)
	assert.True(t, resp.Frame.State.Sort.IsNone())
}

func TestServer_Theme(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	rec := ts.do(t, http.MethodPut, "/api/dashboard/theme", "p", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.ThemeResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "dark", resp.Theme)

	rec = ts.do(t, http.MethodPut, "/api/dashboard/theme", "p", `{"theme":"light"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "light", resp.Theme)
	assert.Equal(t, "light", ts.repo.Preferences("p")["inv_theme"])

	rec = ts.do(t, http.MethodPut, "/api/dashboard/theme", "p", `{"theme":"purple"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ValidationErrors(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown sort key", http.MethodPut, "/api/dashboard/sort", `{"key":"price"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"bad direction", http.MethodPut, "/api/dashboard/sort", `{"key":"qty","direction":"up"}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"malformed json", http.MethodPut, "/api/dashboard/query", `{"status":`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"empty page request", http.MethodPut, "/api/dashboard/page", `{}`, http.StatusBadRequest, dto.ErrCodeBadRequest},
		{"zero page size", http.MethodPut, "/api/dashboard/page", `{"page_size":0}`, http.StatusBadRequest, dto.ErrCodeValidation},
		{"unknown filter", http.MethodDelete, "/api/dashboard/filters/color", "", http.StatusNotFound, dto.ErrCodeNotFound},
		{"unknown export format", http.MethodGet, "/api/orders/export?format=pdf", "", http.StatusBadRequest, dto.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, "p", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var apiErr dto.APIError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
			assert.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestServer_ExportCSV(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/query", "p", `{"search":"widget"}`))

	rec := ts.do(t, http.MethodGet, "/api/orders/export", "p", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv;charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="orders-\d{4}-\d{2}-\d{2}\.csv"$`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Product Name,Product Number,Payment,Status\n\"Widget, A\",503,Paid,Declined", rec.Body.String())
}

func TestServer_ExportEmptyViewUsesAllRecords(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/query", "p", `{"search":"nothing matches"}`))

	rec := ts.do(t, http.MethodGet, "/api/orders/export?format=csv", "p", "")
	require.Equal(t, http.StatusOK, rec.Code)
	lines := strings.Split(rec.Body.String(), "\n")
	assert.Len(t, lines, 13)
}

func TestServer_ExportXLSX(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	rec := ts.do(t, http.MethodGet, "/api/orders/export?format=xlsx", "p", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	metrics := httptest.NewRecorder()
	ts.handler.ServeHTTP(metrics, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, metrics.Body.String(), `dashboard_exports_total{format="xlsx"} 1`)
}

func TestServer_ProfileCookie(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	rec := ts.do(t, http.MethodGet, "/api/dashboard", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	issued := rec.Header().Get(middleware.ProfileHeader)
	require.NotEmpty(t, issued)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.ProfileCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, issued, cookie.Value)

	// The cookie selects the same profile on the next request
	req := httptest.NewRequest(http.MethodPut, "/api/dashboard/query", strings.NewReader(`{"status":"Pending"}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pending", ts.repo.Preferences(issued)["inv_status"])
}

func TestServer_ProfilesAreIsolated(t *testing.T) {
	ts := newTestServer(t, api.DefaultConfig())

	decodeFrame(t, ts.do(t, http.MethodPut, "/api/dashboard/query", "a", `{"status":"Pending"}`))
	resp := decodeFrame(t, ts.do(t, http.MethodGet, "/api/dashboard", "b", ""))
	assert.Equal(t, 12, resp.Frame.Table.Total)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := api.DefaultConfig()
	cfg.RateLimit = middleware.RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2}
	ts := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/dashboard", "p", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/dashboard", "p", "").Code)
	rec := ts.do(t, http.MethodGet, "/api/dashboard", "p", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other profiles have their own budget
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/dashboard", "q", "").Code)
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := api.DefaultConfig()
	cfg.ExposeMetrics = false
	ts := newTestServer(t, cfg)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/metrics", "", "").Code)
}

func TestServer_AnonymousRequestsDoNotGrowProfilesUnbounded(t *testing.T) {
	repo := storage.NewMockRepository(testOrders()...)
	registry, err := dashboard.LoadRegistry(context.Background(), repo, dashboard.Options{
		Logger:      logging.Discard(),
		MaxProfiles: 20,
	})
	require.NoError(t, err)

	cfg := api.DefaultConfig()
	cfg.RateLimit.RequestsPerSecond = 0
	handler := api.NewServer(cfg, registry, repo, nil, logging.Discard()).Router()

	for i := 0; i < 500; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 20, registry.Len())
}
