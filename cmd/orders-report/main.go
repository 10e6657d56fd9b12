package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eshaffer321/orders-dashboard/internal/cli"
	"github.com/eshaffer321/orders-dashboard/internal/infrastructure/config"
)

func main() {
	flags, err := cli.ParseReportFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}
	cfg := config.LoadOrEnv_WithPath(flags.Config)

	if _, err := cli.RunReport(context.Background(), cfg, flags, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
		os.Exit(1)
	}
}
