// Package main provides a CLI tool for seeding the store with demo data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"stockroom/internal/app"
	"stockroom/internal/config"
	"stockroom/internal/core/apperror"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/group"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/catalogs/unit"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/infrastructure/storage"
	"stockroom/pkg/logger"
)

type demoItem struct {
	name     string
	category string
	unit     string
	reorder  int64
	price    string
	opening  int64
}

var (
	demoUnits = []unit.Unit{
		{Name: "Kilogram", Abbreviation: "kg"},
		{Name: "Litre", Abbreviation: "l"},
		{Name: "Piece", Abbreviation: "pcs"},
		{Name: "Bottle", Abbreviation: "btl"},
	}

	demoGroups = []group.Group{
		{Name: "Vegetables", Description: "Fresh produce"},
		{Name: "Dairy", Description: "Milk, cheese and cream"},
		{Name: "Dry Goods", Description: "Flour, rice, pasta and spices"},
		{Name: "Beverages"},
	}

	demoSuppliers = []supplier.Supplier{
		{LegalName: "Green Farm Ltd", PhoneNumber: "+1 (555) 010-2000", Email: "orders@greenfarm.example", ContactPerson: "Mara Lind"},
		{LegalName: "Valley Dairy Co", PhoneNumber: "+1 555 010 3000", Email: "sales@valleydairy.example"},
		{LegalName: "City Wholesale", TaxNumber: "TX-448812", Address: "12 Market Street"},
	}

	demoItems = []demoItem{
		{"Tomatoes", "Vegetables", "kg", 10, "2.50", 50},
		{"Onions", "Vegetables", "kg", 10, "1.20", 30},
		{"Milk", "Dairy", "l", 20, "0.95", 40},
		{"Mozzarella", "Dairy", "kg", 5, "8.40", 6},
		{"Flour", "Dry Goods", "kg", 25, "0.70", 100},
		{"Olive Oil", "Dry Goods", "btl", 4, "9.90", 3},
		{"Sparkling Water", "Beverages", "btl", 24, "0.60", 0},
	}
)

func main() {
	envFile := flag.String("env", "", "path to a .env file")
	configFile := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*envFile, *configFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}

	s, err := storage.Open(ctx, cfg.StorageConfig(), log, nil)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer s.Close()

	a := app.New(s, app.Options{Location: loc})

	if err := seedCatalogs(ctx, a, log); err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}
	if err := seedStock(ctx, a, log); err != nil {
		log.Fatalw("failed to seed stock", "error", err)
	}

	log.Info("seeding completed")
}

// seedCatalogs creates units, groups and suppliers. Entries that already
// exist are skipped so the tool can be re-run.
func seedCatalogs(ctx context.Context, a *app.App, log *logger.Logger) error {
	for _, u := range demoUnits {
		if err := skipDuplicate(a.Units.Create(ctx, &u)); err != nil {
			return fmt.Errorf("unit %s: %w", u.Name, err)
		}
	}
	for _, g := range demoGroups {
		if err := skipDuplicate(a.Groups.Create(ctx, &g)); err != nil {
			return fmt.Errorf("group %s: %w", g.Name, err)
		}
	}

	existing, err := a.Suppliers.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("suppliers already present, skipping", "count", len(existing))
	} else {
		for _, sp := range demoSuppliers {
			if err := a.Suppliers.Create(ctx, &sp); err != nil {
				return fmt.Errorf("supplier %s: %w", sp.LegalName, err)
			}
		}
	}

	log.Infow("catalogs seeded", "units", len(demoUnits), "groups", len(demoGroups), "suppliers", len(demoSuppliers))
	return nil
}

// seedStock creates the demo items with their opening balances and a
// week of purchases and usage. It does nothing when items already exist.
func seedStock(ctx context.Context, a *app.App, log *logger.Logger) error {
	existing, err := a.Items.All(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("stock items already present, skipping", "count", len(existing))
		return nil
	}

	created := make(map[string]*inventory.StockItem, len(demoItems))
	for _, d := range demoItems {
		it, err := a.Items.Create(ctx, &inventory.StockItem{
			Name:          d.name,
			Category:      d.category,
			MeasuringUnit: d.unit,
			ReorderLevel:  types.NewQuantity(d.reorder),
			Price:         types.MustMoney(d.price),
		}, types.NewQuantity(d.opening))
		if err != nil {
			return fmt.Errorf("item %s: %w", d.name, err)
		}
		created[d.name] = it
	}

	start := a.Ledger.Now().AddDate(0, 0, -7)
	movements := []struct {
		item  string
		kind  inventory.Kind
		qty   int64
		party string
		day   int
	}{
		{"Tomatoes", inventory.KindOutflow, 12, "Kitchen", 1},
		{"Onions", inventory.KindOutflow, 8, "Kitchen", 1},
		{"Milk", inventory.KindOutflow, 15, "Breakfast service", 2},
		{"Tomatoes", inventory.KindInflow, 20, "Green Farm Ltd", 3},
		{"Flour", inventory.KindOutflow, 40, "Bakery", 3},
		{"Mozzarella", inventory.KindOutflow, 2, "Pizza station", 4},
		{"Milk", inventory.KindInflow, 24, "Valley Dairy Co", 5},
		{"Tomatoes", inventory.KindOutflow, 30, "Banquet", 6},
	}
	for _, mv := range movements {
		it := created[mv.item]
		_, err := a.Ledger.Record(ctx, inventory.Draft{
			Kind:        mv.kind,
			StockItemID: it.ID,
			Quantity:    types.NewQuantity(mv.qty),
			UnitPrice:   it.Price,
			Party:       mv.party,
			DateTime:    start.Add(time.Duration(mv.day) * 24 * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("%s %s: %w", mv.kind, mv.item, err)
		}
	}

	log.Infow("stock seeded", "items", len(created), "movements", len(movements))
	return nil
}

func skipDuplicate(err error) error {
	if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeDuplicate {
		return nil
	}
	return err
}
