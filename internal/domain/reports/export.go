package reports

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"stockroom/internal/domain/inventory"
)

// Sheet names of the exported workbook.
const (
	SheetItems        = "Stock Items"
	SheetTransactions = "Transactions"
)

// ExportXLSX writes items and the ledger into an Excel workbook.
func (s *Service) ExportXLSX(ctx context.Context, w io.Writer) error {
	items, err := s.items.All(ctx)
	if err != nil {
		return fmt.Errorf("export items: %w", err)
	}
	txs, err := s.ledger.All(ctx)
	if err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetItems); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if _, err := f.NewSheet(SheetTransactions); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	itemRows := [][]interface{}{{
		"ID", "Name", "Category", "Unit", "Quantity", "Status", "Reorder Level", "Price", "Stock Value", "Last Updated",
	}}
	for _, it := range items {
		itemRows = append(itemRows, []interface{}{
			it.ID,
			it.Name,
			it.Category,
			it.MeasuringUnit,
			it.Quantity.Float64(),
			string(it.Status),
			it.ReorderLevel.Float64(),
			it.Price.InexactFloat64(),
			it.StockValue().InexactFloat64(),
			it.LastUpdated.Format("2006-01-02 15:04"),
		})
	}
	if err := writeRows(f, SheetItems, itemRows); err != nil {
		return err
	}

	txRows := [][]interface{}{{
		"ID", "Item", "Date", "Time", "Type", "Quantity", "Party", "Unit Price", "Stock Value", "Notes",
	}}
	for _, r := range rows(txs, names(items), inventory.LedgerView) {
		txRows = append(txRows, []interface{}{
			r.ID,
			r.ItemName,
			r.Date,
			r.Time,
			r.TypeLabel,
			r.Quantity.Float64(),
			r.Party,
			r.UnitPrice.InexactFloat64(),
			r.StockValue.InexactFloat64(),
			r.Notes,
		})
	}
	if err := writeRows(f, SheetTransactions, txRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export write: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, data [][]interface{}) error {
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export %s: %w", sheet, err)
		}
	}
	return nil
}
