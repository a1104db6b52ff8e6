package inventory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/events"
	"stockroom/internal/core/id"
	"stockroom/internal/core/store"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/pkg/logger"
)

var tracer = otel.Tracer("stockroom/ledger")

// Observer receives ledger statistics (metrics).
type Observer interface {
	LedgerOp(op string, err error)
	Reconciled(items, unknown int)
	ItemsByStatus(counts map[string]int)
}

type nopObserver struct{}

func (nopObserver) LedgerOp(string, error)       {}
func (nopObserver) Reconciled(int, int)          {}
func (nopObserver) ItemsByStatus(map[string]int) {}

// errUnchanged aborts a Mutate without writing.
var errUnchanged = errors.New("unchanged")

// Draft is a validated request to record a transaction.
type Draft struct {
	Kind        Kind
	StockItemID id.ID
	Quantity    types.Quantity
	UnitPrice   types.Money
	Party       string
	// DateTime is the business instant; zero means now.
	DateTime time.Time
	Notes    string
}

// Edit replaces the editable fields of a transaction.
type Edit struct {
	Quantity  types.Quantity
	UnitPrice types.Money
	Party     string
	DateTime  time.Time
	Notes     string
}

// Ledger records transactions and keeps each owning item's cached
// quantity and status equal to what its transactions imply.
// Operations are serialized; the transaction list is written before the
// item list, and a crash in between is repaired by ReconcileOnLoad.
type Ledger struct {
	mu sync.Mutex

	items    domain.CollectionRepository[*StockItem]
	txs      domain.CollectionRepository[*Transaction]
	loc      *time.Location
	now      func() time.Time
	observer Observer
	events   events.Publisher
}

// LedgerConfig configures a Ledger. Only the repositories are required.
type LedgerConfig struct {
	Items        domain.CollectionRepository[*StockItem]
	Transactions domain.CollectionRepository[*Transaction]

	// Location renders the date and time strings. Defaults to time.Local.
	Location *time.Location
	Clock    func() time.Time
	Observer Observer
	Events   events.Publisher
}

// NewLedger creates a ledger.
func NewLedger(cfg LedgerConfig) *Ledger {
	l := &Ledger{
		items:    cfg.Items,
		txs:      cfg.Transactions,
		loc:      cfg.Location,
		now:      cfg.Clock,
		observer: cfg.Observer,
		events:   cfg.Events,
	}
	if l.loc == nil {
		l.loc = time.Local
	}
	if l.now == nil {
		l.now = func() time.Time { return time.Now().UTC() }
	}
	if l.observer == nil {
		l.observer = nopObserver{}
	}
	if l.events == nil {
		l.events = events.Nop{}
	}
	return l
}

// Location returns the zone used for rendered dates.
func (l *Ledger) Location() *time.Location { return l.loc }

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time { return l.now() }

// Record appends a transaction (newest first) and reconciles its item.
func (l *Ledger) Record(ctx context.Context, d Draft) (_ *Transaction, err error) {
	ctx, span := tracer.Start(ctx, "ledger.record", trace.WithAttributes(
		attribute.Int64("item.id", d.StockItemID),
		attribute.String("tx.kind", string(d.Kind)),
	))
	defer func() { l.finish(span, "record", err) }()

	if !d.Kind.Valid() {
		return nil, apperror.NewUnknownKind(string(d.Kind))
	}
	if id.IsNil(d.StockItemID) {
		return nil, apperror.NewValidation("stock item is required").WithDetail("field", "stockItemId")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.items.GetByID(ctx, d.StockItemID); err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock item", d.StockItemID)
		}
		return nil, err
	}

	at := d.DateTime
	if at.IsZero() {
		at = l.now()
	}

	tx := &Transaction{
		StockItemID: d.StockItemID,
		Type:        d.Kind,
		Party:       d.Party,
		Notes:       notesOrPlaceholder(d.Notes),
	}
	tx.price(d.Quantity.ClampZero(), d.UnitPrice)
	tx.schedule(at, l.loc)

	if err := tx.Validate(ctx); err != nil {
		return nil, err
	}
	if err := l.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("tx.id", tx.ID))

	if _, err := l.reconcileItem(ctx, tx.StockItemID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction recorded",
		"id", tx.ID,
		"item_id", tx.StockItemID,
		"kind", tx.Type,
		"quantity", tx.Quantity.String(),
	)
	l.events.Publish(ctx, events.Event{Type: events.TransactionRecorded, Key: store.KeyStockTransactions, EntityID: tx.ID})
	return tx, nil
}

// Edit replaces a transaction's fields and reconciles its item against the
// entire updated ledger.
func (l *Ledger) Edit(ctx context.Context, txID id.ID, e Edit) (_ *Transaction, err error) {
	ctx, span := tracer.Start(ctx, "ledger.edit", trace.WithAttributes(attribute.Int64("tx.id", txID)))
	defer func() { l.finish(span, "edit", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	var edited *Transaction
	err = l.txs.Mutate(ctx, func(list []*Transaction) ([]*Transaction, error) {
		for i, t := range list {
			if t.ID != txID {
				continue
			}
			next := *t
			next.Party = e.Party
			next.Notes = notesOrPlaceholder(e.Notes)
			next.price(e.Quantity.ClampZero(), e.UnitPrice)

			at := e.DateTime
			if at.IsZero() {
				at = t.DateTime
			}
			next.schedule(at, l.loc)

			if err := next.Validate(ctx); err != nil {
				return nil, err
			}
			list[i] = &next
			edited = &next
			return list, nil
		}
		return nil, apperror.NewNotFound("transaction", txID)
	})
	if err != nil {
		return nil, err
	}

	if _, err := l.reconcileItem(ctx, edited.StockItemID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "transaction edited", "id", txID, "item_id", edited.StockItemID)
	l.events.Publish(ctx, events.Event{Type: events.TransactionEdited, Key: store.KeyStockTransactions, EntityID: txID})
	return edited, nil
}

// Delete removes a transaction and reconciles its item from what remains.
// Deleting an unknown ID does nothing.
func (l *Ledger) Delete(ctx context.Context, txID id.ID) (err error) {
	ctx, span := tracer.Start(ctx, "ledger.delete", trace.WithAttributes(attribute.Int64("tx.id", txID)))
	defer func() { l.finish(span, "delete", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	var removed *Transaction
	err = l.txs.Mutate(ctx, func(list []*Transaction) ([]*Transaction, error) {
		for i, t := range list {
			if t.ID == txID {
				removed = t
				return append(list[:i], list[i+1:]...), nil
			}
		}
		return nil, errUnchanged
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := l.reconcileItem(ctx, removed.StockItemID); err != nil {
		return err
	}

	logger.Info(ctx, "transaction deleted", "id", txID, "item_id", removed.StockItemID)
	l.events.Publish(ctx, events.Event{Type: events.TransactionDeleted, Key: store.KeyStockTransactions, EntityID: txID})
	return nil
}

// ReconcileItem recomputes one item from the full ledger.
// It returns nil for an item that does not exist.
func (l *Ledger) ReconcileItem(ctx context.Context, itemID id.ID) (*StockItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reconcileItem(ctx, itemID)
}

// ReconcileOnLoad recomputes every item from the full ledger and persists
// the corrected list. Items already consistent are left untouched, so a
// second call in a row changes nothing.
func (l *Ledger) ReconcileOnLoad(ctx context.Context) (_ []*StockItem, err error) {
	ctx, span := tracer.Start(ctx, "ledger.reconcile_on_load")
	defer func() { l.finish(span, "reconcile_on_load", err) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	ledger, err := l.txs.All(ctx)
	if err != nil {
		return nil, err
	}
	byItem := make(map[id.ID][]*Transaction)
	for _, t := range ledger {
		byItem[t.StockItemID] = append(byItem[t.StockItemID], t)
	}

	var (
		result  []*StockItem
		changed int
		unknown []id.ID
		counts  = make(map[string]int, len(Statuses))
	)
	err = l.items.Mutate(ctx, func(items []*StockItem) ([]*StockItem, error) {
		now := l.now()
		for _, item := range items {
			r := Reconcile(item, byItem[item.ID])
			unknown = append(unknown, r.Unknown...)
			if item.Quantity != r.Quantity || item.Status != r.Status {
				item.applyReconciliation(r)
				item.Stamp(now)
				changed++
			}
			counts[string(item.Status)]++
			delete(byItem, item.ID)
		}
		result = items
		if changed == 0 {
			return nil, errUnchanged
		}
		return items, nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return nil, err
	}

	if len(unknown) > 0 {
		logger.Warn(ctx, "transactions with unknown kind excluded from reconciliation", "ids", unknown)
	}
	logger.Info(ctx, "ledger reconciled",
		"items", len(result),
		"changed", changed,
		"transactions", len(ledger),
		"orphaned_items", len(byItem),
	)

	l.observer.Reconciled(len(result), len(unknown))
	l.observer.ItemsByStatus(counts)
	if changed > 0 {
		l.events.Publish(ctx, events.Event{Type: events.ItemsReconciled, Key: store.KeyStockItems})
	}
	return result, nil
}

// Get returns one transaction.
func (l *Ledger) Get(ctx context.Context, txID id.ID) (*Transaction, error) {
	t, err := l.txs.GetByID(ctx, txID)
	if apperror.IsNotFound(err) {
		return nil, apperror.NewNotFound("transaction", txID)
	}
	return t, err
}

// All returns the whole ledger, newest first.
func (l *Ledger) All(ctx context.Context) ([]*Transaction, error) {
	return l.txs.All(ctx)
}

// List filters and paginates the ledger.
func (l *Ledger) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[*Transaction], error) {
	return l.txs.List(ctx, f)
}

// ForItem returns the item's transactions in ledger order.
func (l *Ledger) ForItem(ctx context.Context, itemID id.ID) ([]*Transaction, error) {
	all, err := l.txs.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Transaction, 0)
	for _, t := range all {
		if t.StockItemID == itemID {
			out = append(out, t)
		}
	}
	return out, nil
}

// reconcileItem must be called with l.mu held.
func (l *Ledger) reconcileItem(ctx context.Context, itemID id.ID) (*StockItem, error) {
	ledger, err := l.txs.All(ctx)
	if err != nil {
		return nil, err
	}

	var updated *StockItem
	err = l.items.Mutate(ctx, func(items []*StockItem) ([]*StockItem, error) {
		for _, item := range items {
			if item.ID != itemID {
				continue
			}
			r := Reconcile(item, ledger)
			if len(r.Unknown) > 0 {
				logger.Warn(ctx, "transactions with unknown kind excluded from reconciliation",
					"item_id", itemID, "ids", r.Unknown)
			}
			item.applyReconciliation(r)
			item.Stamp(l.now())
			updated = item
			return items, nil
		}
		return nil, errUnchanged
	})
	if errors.Is(err, errUnchanged) {
		// Orphaned transaction: nothing to reconcile.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (l *Ledger) finish(span trace.Span, op string, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
	l.observer.LedgerOp(op, err)
}
