package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/orders-dashboard/internal/domain/export"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/config"
)

// reportEnv writes a seed file and returns a config pointing at a fresh
// database in the test's temp dir.
func reportEnv(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	data, err := json.Marshal(reportOrders())
	require.NoError(t, err)
	seedPath := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(seedPath, data, 0o644))

	cfg := config.Default()
	cfg.Storage.DatabasePath = filepath.Join(dir, "dashboard.db")
	cfg.Dashboard.SeedPath = seedPath
	cfg.Observability.Logging.Level = "error"
	return cfg
}

func runReport(t *testing.T, cfg *config.Config, args ...string) (*ReportResult, string) {
	t.Helper()
	flags, err := ParseReportFlags(args, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	result, err := RunReport(context.Background(), cfg, flags, &out)
	require.NoError(t, err)
	return result, out.String()
}

func TestRunReport_Default(t *testing.T) {
	cfg := reportEnv(t)

	result, out := runReport(t, cfg)

	assert.Equal(t, 12, result.Total)
	assert.Len(t, result.Frame.Table.Items, 10)
	assert.Contains(t, out, "Showing 1-10 of 12 (Total: 12) | Page 1 / 2")
	assert.Empty(t, result.ExportPath)
}

func TestRunReport_FilterAndSort(t *testing.T) {
	cfg := reportEnv(t)

	result, out := runReport(t, cfg, "-status", "Delivered", "-sort", "unitPrice", "-dir", "desc")

	require.Len(t, result.Frame.Table.Items, 3)
	assert.Equal(t, "Product 08", result.Frame.Table.Items[0].ProductName)
	assert.Equal(t, "Product 00", result.Frame.Table.Items[2].ProductName)
	assert.Contains(t, out, "Filters: Status: Delivered")
	assert.Contains(t, out, "Sort: unitPrice desc")
}

func TestRunReport_ToggleSortWithoutDirection(t *testing.T) {
	cfg := reportEnv(t)

	result, _ := runReport(t, cfg, "-sort", "unitPrice")
	assert.Equal(t, "Product 00", result.Frame.Table.Items[0].ProductName)

	// the restored sort is ascending on the same key, so toggling flips it
	result, _ = runReport(t, cfg, "-sort", "unitPrice")
	assert.Equal(t, "Product 11", result.Frame.Table.Items[0].ProductName)
}

func TestRunReport_RestoresProfile(t *testing.T) {
	cfg := reportEnv(t)

	runReport(t, cfg, "-status", "Delivered")

	result, _ := runReport(t, cfg)
	assert.Equal(t, "Showing 1-3 of 3 (Total: 12)", result.Frame.Summary)

	other, _ := runReport(t, cfg, "-profile", "someone-else")
	assert.Equal(t, "Showing 1-10 of 12 (Total: 12)", other.Frame.Summary)

	cleared, _ := runReport(t, cfg, "-clear")
	assert.Equal(t, "Showing 1-10 of 12 (Total: 12)", cleared.Frame.Summary)
}

func TestRunReport_Paging(t *testing.T) {
	cfg := reportEnv(t)

	result, _ := runReport(t, cfg, "-per-page", "5", "-page", "3")
	assert.Equal(t, "Showing 11-12 of 12 (Total: 12)", result.Frame.Summary)
	assert.Equal(t, "Page 3 / 3", result.Frame.Pagination.Label)

	clamped, _ := runReport(t, cfg, "-page", "99")
	assert.Equal(t, 3, clamped.Frame.Pagination.Page)
}

func TestRunReport_ExportToDirectory(t *testing.T) {
	cfg := reportEnv(t)
	dir := t.TempDir()

	result, out := runReport(t, cfg, "-status", "Delivered", "-export", dir)

	require.NotEmpty(t, result.ExportPath)
	assert.Equal(t, dir, filepath.Dir(result.ExportPath))
	assert.Equal(t, export.Filename(export.FormatCSV, time.Now()), filepath.Base(result.ExportPath))
	assert.Contains(t, out, "Exported "+result.ExportPath)

	data, err := os.ReadFile(result.ExportPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, strings.Join(export.Header, ","), lines[0])
	assert.Len(t, lines, 4, "header plus the three delivered orders")
}

func TestRunReport_ExportXLSXByExtension(t *testing.T) {
	cfg := reportEnv(t)
	target := filepath.Join(t.TempDir(), "view.xlsx")

	result, _ := runReport(t, cfg, "-export", target)

	assert.Equal(t, target, result.ExportPath)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestRunReport_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown sort column", []string{"-sort", "colour"}},
		{"unknown direction", []string{"-sort", "qty", "-dir", "sideways"}},
		{"bad page size", []string{"-per-page", "0"}},
		{"unknown export format", []string{"-export", "out.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := reportEnv(t)
			flags, err := ParseReportFlags(tt.args, io.Discard)
			require.NoError(t, err)

			_, err = RunReport(context.Background(), cfg, flags, io.Discard)
			assert.Error(t, err)
		})
	}
}
