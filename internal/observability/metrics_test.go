package observability

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.ObserveRecompute(TriggerQuery, 5*time.Millisecond)
	m.ObserveRecompute(TriggerQuery, 2*time.Millisecond)
	m.ObserveRecompute(TriggerPage, time.Millisecond)
	m.Export("csv")
	m.PreferenceError("save")
	m.ActiveProfiles.Set(3)

	body := scrape(t, m)
	assert.Contains(t, body, `dashboard_recompute_total{trigger="query"} 2`)
	assert.Contains(t, body, `dashboard_recompute_total{trigger="page"} 1`)
	assert.Contains(t, body, `dashboard_pipeline_duration_seconds_count{trigger="query"} 2`)
	assert.Contains(t, body, `dashboard_exports_total{format="csv"} 1`)
	assert.Contains(t, body, `dashboard_preference_errors_total{op="save"} 1`)
	assert.Contains(t, body, `dashboard_active_profiles 3`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRecompute(TriggerSort, time.Millisecond)
		m.Export("xlsx")
		m.PreferenceError("load")
	})
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.Export("xlsx")

	assert.Contains(t, scrape(t, a), `dashboard_exports_total{format="xlsx"} 1`)
	assert.NotContains(t, scrape(t, b), `dashboard_exports_total{format="xlsx"}`)
}
