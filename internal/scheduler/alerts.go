package scheduler

import (
	"context"
	"fmt"

	"stockroom/internal/domain/inventory"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/notify"
	"stockroom/pkg/logger"
)

// AlertSubject heads every low-stock message.
const AlertSubject = "Stockroom: low stock"

// LowStockAlert reconciles the store and sends the low-stock report.
type LowStockAlert struct {
	ledger   *inventory.Ledger
	reports  *reports.Service
	notifier notify.Notifier

	// SendWhenEmpty also notifies when nothing needs reordering.
	SendWhenEmpty bool
}

// NewLowStockAlert creates the alert job.
func NewLowStockAlert(ledger *inventory.Ledger, rs *reports.Service, n notify.Notifier) *LowStockAlert {
	return &LowStockAlert{ledger: ledger, reports: rs, notifier: n}
}

// Run implements Job.
func (a *LowStockAlert) Run(ctx context.Context) error {
	if _, err := a.ledger.ReconcileOnLoad(ctx); err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	report, err := a.reports.LowStock(ctx)
	if err != nil {
		return err
	}
	if report.Empty() && !a.SendWhenEmpty {
		logger.Info(ctx, "no items below reorder level")
		return nil
	}

	return a.notifier.Notify(ctx, notify.Message{
		Subject: AlertSubject,
		Text:    reports.FormatLowStock(report),
	})
}
