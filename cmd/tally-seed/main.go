// Command tally-seed fills the database with demo data: a couple of
// stores, a starter catalog and some customers. Useful for trying the UI
// on a fresh checkout. Safe to re-run; it skips seeding when products
// already exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oakmere/tally/internal/catalog"
	"github.com/oakmere/tally/internal/config"
	"github.com/oakmere/tally/internal/flow"
	"github.com/oakmere/tally/internal/store"
	"github.com/oakmere/tally/internal/telemetry"
)

func main() {
	workDir := flag.String("dir", ".", "directory holding the .tally data directory")
	force := flag.Bool("force", false, "seed even if products already exist")
	flag.Parse()

	if err := run(*workDir, *force); err != nil {
		fmt.Fprintf(os.Stderr, "tally-seed: %v\n", err)
		os.Exit(1)
	}
}

func run(workDir string, force bool) error {
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

	ctx := context.Background()
	if !force {
		page, err := st.SearchProducts(ctx, flow.Query{PageSize: 1})
		if err != nil {
			return err
		}
		if page.TotalCount > 0 {
			fmt.Printf("database already has %d products; use -force to seed anyway\n", page.TotalCount)
			return nil
		}
	}

	mainStore, err := st.CreateStore(ctx, catalog.Store{Name: "High Street", Address: "12 High Street"})
	if err != nil {
		return err
	}
	if _, err := st.CreateStore(ctx, catalog.Store{Name: "Riverside", Address: "3 Quay Lane"}); err != nil {
		return err
	}

	products := []catalog.Product{
		{SKU: "HAM-001", Name: "Claw Hammer", Category: "tools", Price: 1299, Stock: 12, MinStock: 3},
		{SKU: "SCR-010", Name: "Screwdriver Set", Category: "tools", Price: 2499, Stock: 5, MinStock: 2},
		{SKU: "DRL-200", Name: "Cordless Drill", Category: "tools", Price: 8999, Stock: 4, MinStock: 2},
		{SKU: "PNT-100", Name: "Wall Paint 5L", Category: "paint", Price: 3999, Stock: 8, MinStock: 4},
		{SKU: "PNT-101", Name: "Primer 2.5L", Category: "paint", Price: 2199, Stock: 6, MinStock: 3},
		{SKU: "BRU-020", Name: "Paint Brush", Category: "paint", Price: 499, Stock: 30, MinStock: 10},
		{SKU: "ROL-021", Name: "Paint Roller", Category: "paint", Price: 799, Stock: 18, MinStock: 6},
		{SKU: "GLV-050", Name: "Work Gloves", Category: "safety", Price: 899, Stock: 25, MinStock: 8},
		{SKU: "GOG-051", Name: "Safety Goggles", Category: "safety", Price: 1199, Stock: 14, MinStock: 5},
		{SKU: "TAP-070", Name: "Measuring Tape 5m", Category: "tools", Price: 999, Stock: 20, MinStock: 6},
	}
	for _, p := range products {
		p.StoreID = mainStore.ID
		if _, err := st.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
	}

	customers := []catalog.Customer{
		{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0101"},
		{Name: "Alan Turing", Email: "alan@example.com", Phone: "555-0102"},
		{Name: "Grace Hopper", Email: "grace@example.com"},
	}
	for _, c := range customers {
		if _, err := st.CreateCustomer(ctx, c); err != nil {
			return fmt.Errorf("seed customer %s: %w", c.Name, err)
		}
	}

	employees := []catalog.Employee{
		{Name: "Sam Patel", Role: "manager", StoreID: mainStore.ID},
		{Name: "Jo Reyes", Role: "clerk", StoreID: mainStore.ID},
	}
	for _, e := range employees {
		if _, err := st.CreateEmployee(ctx, e); err != nil {
			return fmt.Errorf("seed employee %s: %w", e.Name, err)
		}
	}

	fmt.Printf("seeded %d products, %d customers, %d employees\n", len(products), len(customers), len(employees))
	return nil
}

// resolve anchors relative config paths at the chosen data directory.
func resolve(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workDir, path)
}
