// Package app assembles the domain services over one store.
package app

import (
	"context"
	"time"

	"stockroom/internal/core/events"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/domain/catalogs/group"
	"stockroom/internal/domain/catalogs/supplier"
	"stockroom/internal/domain/catalogs/unit"
	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/preferences"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/backup"
	v1 "stockroom/internal/infrastructure/http/v1"
	"stockroom/internal/infrastructure/storage"
)

// Options tunes the assembled services. The zero value is usable.
type Options struct {
	Location *time.Location
	Clock    func() time.Time
	Observer inventory.Observer
}

// App holds every service sharing one store, id generator and event bus.
type App struct {
	Store store.Store
	Bus   *events.Bus

	Ledger      *inventory.Ledger
	Items       *inventory.ItemService
	Units       *unit.Service
	Groups      *group.Service
	Suppliers   *supplier.Service
	Reports     *reports.Service
	Backup      *backup.Service
	Preferences *preferences.Service
}

// New wires the services over s.
func New(s store.Store, opts Options) *App {
	var ids *id.Generator
	if opts.Clock != nil {
		ids = id.NewGeneratorWithClock(opts.Clock)
	} else {
		ids = id.NewGenerator()
	}
	common := []storage.Option{storage.WithIDGenerator(ids)}
	if opts.Clock != nil {
		common = append(common, storage.WithClock(opts.Clock))
	}
	with := func(extra ...storage.Option) []storage.Option {
		return append(append([]storage.Option{}, common...), extra...)
	}

	bus := events.NewBus()

	items := storage.NewCollection[*inventory.StockItem](s, store.KeyStockItems, with()...)
	txs := storage.NewCollection[*inventory.Transaction](s, store.KeyStockTransactions, with(storage.WithPrepend())...)

	ledger := inventory.NewLedger(inventory.LedgerConfig{
		Items:        items,
		Transactions: txs,
		Location:     opts.Location,
		Clock:        opts.Clock,
		Observer:     opts.Observer,
		Events:       bus,
	})
	itemService := inventory.NewItemService(items, ledger, bus)

	a := &App{
		Store:       s,
		Bus:         bus,
		Ledger:      ledger,
		Items:       itemService,
		Units:       unit.NewService(storage.NewCollection[*unit.Unit](s, store.KeyMeasuringUnits, with()...)),
		Groups:      group.NewService(storage.NewCollection[*group.Group](s, store.KeyStockGroups, with(storage.WithLegacyKeys(store.KeyStockGroupsLegacy))...), itemService),
		Suppliers:   supplier.NewService(storage.NewCollection[*supplier.Supplier](s, store.KeySuppliers, with()...)),
		Reports:     reports.NewService(itemService, ledger),
		Preferences: preferences.NewService(s, bus),
	}
	a.Backup = backup.NewService(s, backup.ReconcilerFunc(a.reconcile), bus)
	return a
}

func (a *App) reconcile(ctx context.Context) error {
	_, err := a.Ledger.ReconcileOnLoad(ctx)
	return err
}

// Watcher returns the store as a watcher when the driver can report
// writes from other processes.
func (a *App) Watcher() (store.Watcher, bool) {
	if u, ok := a.Store.(interface{ Unwrap() store.Store }); ok {
		if _, ok := u.Unwrap().(store.Watcher); !ok {
			return nil, false
		}
	}
	w, ok := a.Store.(store.Watcher)
	return w, ok
}

// Sync returns the external change follower, or nil when the store cannot
// watch.
func (a *App) Sync() *inventory.Sync {
	w, ok := a.Watcher()
	if !ok {
		return nil
	}
	return inventory.NewSync(w, a.Ledger, a.Bus)
}

// RouterConfig fills the service fields of the HTTP router config.
func (a *App) RouterConfig() v1.RouterConfig {
	return v1.RouterConfig{
		Bus:         a.Bus,
		Ledger:      a.Ledger,
		Items:       a.Items,
		Units:       a.Units,
		Groups:      a.Groups,
		Suppliers:   a.Suppliers,
		Reports:     a.Reports,
		Backup:      a.Backup,
		Preferences: a.Preferences,
	}
}
