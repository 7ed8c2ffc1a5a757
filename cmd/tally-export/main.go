// Command tally-export writes catalog listings as CSV to stdout or a file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oakmere/tally/internal/config"
	"github.com/oakmere/tally/internal/export"
	"github.com/oakmere/tally/internal/flow"
	"github.com/oakmere/tally/internal/store"
	"github.com/oakmere/tally/internal/telemetry"
)

func main() {
	workDir := flag.String("dir", ".", "directory holding the .tally data directory")
	what := flag.String("what", "products", "what to export: products, customers or sales")
	out := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	if err := run(*workDir, *what, *out); err != nil {
		fmt.Fprintf(os.Stderr, "tally-export: %v\n", err)
		os.Exit(1)
	}
}

func run(workDir, what, out string) error {
	cfgManager := config.NewManager(workDir)
	if err := cfgManager.Load(); err != nil {
		return err
	}
	cfg := cfgManager.Get()

	logger, err := telemetry.NewLogger(resolve(workDir, cfg.LogPath()), cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := store.Open(resolve(workDir, cfg.DatabasePath), logger)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var w io.Writer = os.Stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	ctx := context.Background()
	switch what {
	case "products":
		page, err := st.SearchProducts(ctx, flow.Query{PageSize: 10000})
		if err != nil {
			return err
		}
		return export.Products(w, page.Items)
	case "customers":
		page, err := st.SearchCustomers(ctx, flow.Query{PageSize: 10000})
		if err != nil {
			return err
		}
		return export.Customers(w, page.Items)
	case "sales":
		sales, err := st.ListSales(ctx, 10000)
		if err != nil {
			return err
		}
		return export.Sales(w, sales)
	default:
		return fmt.Errorf("unknown export target %q", what)
	}
}

// resolve anchors relative config paths at the chosen data directory.
func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
