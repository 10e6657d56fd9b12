package cli

import (
	"flag"
	"io"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port    int
	Config  string
	Verbose bool
}

// ParseServeFlags parses command line flags for the serve command. A port
// of 0 keeps the configured one.
func ParseServeFlags(args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	fs.StringVar(&flags.Config, "config", "config.yaml", "Path to the YAML config file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// ReportFlags are the flags for the report command. Unset flags leave the
// profile's restored view untouched.
type ReportFlags struct {
	Config   string
	Database string
	Seed     string
	Profile  string

	Search  string
	Status  string
	Payment string
	Sort    string
	Dir     string
	Page    int
	PerPage int
	Clear   bool

	Export string
	Format string

	Verbose bool

	set map[string]bool
}

// IsSet reports whether the named flag was given on the command line.
func (f *ReportFlags) IsSet(name string) bool {
	return f.set[name]
}

// ParseReportFlags parses command line flags for the report command.
func ParseReportFlags(args []string, output io.Writer) (*ReportFlags, error) {
	flags := &ReportFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet("orders-report", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	fs.StringVar(&flags.Config, "config", "config.yaml", "Path to the YAML config file")
	fs.StringVar(&flags.Database, "db", "", "Database path (overrides config)")
	fs.StringVar(&flags.Seed, "seed", "", "Seed file used when the database is empty")
	fs.StringVar(&flags.Profile, "profile", "cli", "Preference profile to restore and update")
	fs.StringVar(&flags.Search, "search", "", "Search text")
	fs.StringVar(&flags.Status, "status", "", "Shipping status filter (all for none)")
	fs.StringVar(&flags.Payment, "payment", "", "Payment status filter (all for none)")
	fs.StringVar(&flags.Sort, "sort", "", "Sort column, e.g. unitPrice")
	fs.StringVar(&flags.Dir, "dir", "", "Sort direction: asc or desc (empty toggles)")
	fs.IntVar(&flags.Page, "page", 0, "Page number")
	fs.IntVar(&flags.PerPage, "per-page", 0, "Rows per page")
	fs.BoolVar(&flags.Clear, "clear", false, "Reset search, filters, sort and page first")
	fs.StringVar(&flags.Export, "export", "", "Write the current view to this file (.csv or .xlsx)")
	fs.StringVar(&flags.Format, "format", "", "Export format when -export is a directory or has no extension")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { flags.set[f.Name] = true })
	return flags, nil
}
