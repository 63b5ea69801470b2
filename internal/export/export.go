// Package export builds the yearly tax export: deductible summary rows
// fetched from the backend, appended to a spreadsheet.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"takatrack/internal/core"
)

// RowWriter appends rows to a spreadsheet tab. The Google Sheets client
// implements it.
type RowWriter interface {
	AppendRows(ctx context.Context, sheet string, rows [][]any) error
}

// RecordFetcher is the slice of the backend client the exporter needs.
type RecordFetcher interface {
	TaxRecords(ctx context.Context, year int) ([]core.TaxRecord, error)
}

var header = []any{"Year", "Category", "Total", "Deductible"}

// BuildRows converts tax records to spreadsheet rows, header first.
// Deductible flags render as Yes/No so the sheet reads without a legend.
func BuildRows(records []core.TaxRecord) [][]any {
	rows := make([][]any, 0, len(records)+1)
	rows = append(rows, header)
	for _, r := range records {
		deductible := "No"
		if r.Deductible {
			deductible = "Yes"
		}
		rows = append(rows, []any{r.Year, r.Category, r.TotalAmount, deductible})
	}
	return rows
}

// SheetName is the tab the export lands on, one per tax year.
func SheetName(year int) string {
	return fmt.Sprintf("Tax %d", year)
}

// Exporter runs one export end to end.
type Exporter struct {
	backend RecordFetcher
	writer  RowWriter
}

func NewExporter(backend RecordFetcher, writer RowWriter) *Exporter {
	return &Exporter{backend: backend, writer: writer}
}

// Run fetches the year's records and appends them to the year's tab. An
// empty year writes only the header row so the tab still exists.
func (e *Exporter) Run(ctx context.Context, year int) (int, error) {
	records, err := e.backend.TaxRecords(ctx, year)
	if err != nil {
		return 0, fmt.Errorf("fetch tax records: %w", err)
	}

	start := time.Now()
	rows := BuildRows(records)
	if err := e.writer.AppendRows(ctx, SheetName(year), rows); err != nil {
		return 0, fmt.Errorf("append rows: %w", err)
	}

	slog.InfoContext(ctx, "Tax export complete",
		"year", year, "records", len(records), "took", time.Since(start))
	return len(records), nil
}
