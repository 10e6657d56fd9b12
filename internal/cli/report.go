package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/eshaffer321/orders-dashboard/internal/application/dashboard"
	"github.com/eshaffer321/orders-dashboard/internal/domain/export"
	"github.com/eshaffer321/orders-dashboard/internal/domain/sorter"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/config"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/logging"
)

// ReportResult describes what a report run produced.
type ReportResult struct {
	Frame      dashboard.Frame
	Total      int
	ExportPath string
}

// RunReport applies the flags to the profile's dashboard, prints the
// resulting view to out and optionally writes an export file. The profile's
// view is persisted the same way the API persists it.
func RunReport(ctx context.Context, cfg *config.Config, flags *ReportFlags, out io.Writer) (*ReportResult, error) {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.WithComponent(logging.NewLoggerTo(os.Stderr, loggingCfg), "report")

	dbPath := cfg.Storage.DatabasePath
	if flags.Database != "" {
		dbPath = flags.Database
	}
	seedPath := cfg.Dashboard.SeedPath
	if flags.Seed != "" {
		seedPath = flags.Seed
	}

	store, err := openStore(ctx, dbPath, seedPath, logger)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	registry, err := dashboard.LoadRegistry(ctx, store, dashboard.Options{
		DefaultPageSize: cfg.Dashboard.DefaultPageSize,
		TopProducts:     cfg.Dashboard.TopProducts,
		Sinks:           []dashboard.Sink{dashboard.LogSink{Logger: logger}},
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	ctrl := registry.Get(ctx, flags.Profile)
	if err := applyReportFlags(ctx, ctrl, flags); err != nil {
		return nil, err
	}

	result := &ReportResult{
		Frame: ctrl.Snapshot(),
		Total: len(registry.Records()),
	}
	PrintReport(out, ctrl.ProfileID(), result.Frame)

	if flags.Export != "" {
		path, err := writeExport(flags.Export, flags.Format, ctrl, time.Now())
		if err != nil {
			return nil, err
		}
		result.ExportPath = path
		logger.Info("export written", slog.String("path", path))
		fmt.Fprintf(out, "\nExported %s\n", path)
	}
	return result, nil
}

func applyReportFlags(ctx context.Context, ctrl *dashboard.Controller, flags *ReportFlags) error {
	if flags.Clear {
		ctrl.ClearAll(ctx)
	}

	if flags.IsSet("search") || flags.IsSet("status") || flags.IsSet("payment") {
		q := ctrl.State().Query
		if flags.IsSet("search") {
			q.Search = flags.Search
		}
		if flags.IsSet("status") {
			q.Status = flags.Status
		}
		if flags.IsSet("payment") {
			q.Payment = flags.Payment
		}
		ctrl.SetQuery(ctx, q)
	}

	if flags.IsSet("sort") {
		key, ok := sorter.ParseKey(flags.Sort)
		if !ok || key == sorter.KeyNone {
			return fmt.Errorf("unknown sort column %q", flags.Sort)
		}
		if flags.Dir == "" {
			ctrl.ToggleSort(ctx, key)
		} else {
			dir, ok := sorter.ParseDirection(strings.ToLower(flags.Dir))
			if !ok {
				return fmt.Errorf("unknown sort direction %q", flags.Dir)
			}
			ctrl.SetSort(ctx, sorter.Spec{Key: key, Direction: dir})
		}
	}

	if flags.IsSet("per-page") {
		if flags.PerPage < 1 {
			return fmt.Errorf("per-page must be at least 1, got %d", flags.PerPage)
		}
		ctrl.SetPageSize(ctx, flags.PerPage)
	}
	if flags.IsSet("page") {
		ctrl.SetPage(ctx, flags.Page)
	}
	return nil
}

// writeExport resolves the export target and format and writes the view.
// A directory target gets the dated default file name.
func writeExport(target, formatName string, ctrl *dashboard.Controller, now time.Time) (string, error) {
	if formatName == "" {
		formatName = strings.TrimPrefix(filepath.Ext(target), ".")
	}
	format, ok := export.ParseFormat(formatName)
	if !ok {
		return "", fmt.Errorf("unsupported export format %q", formatName)
	}

	path := target
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		path = filepath.Join(target, export.Filename(format, now))
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, format, ctrl.ExportRows()); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}
