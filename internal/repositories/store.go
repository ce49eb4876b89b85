// Package repositories reads and writes the three spreadsheet tables. Each
// repository validates raw rows into typed records once, at this boundary;
// nothing above it re-parses sheet cells.
package repositories

import "context"

// SheetStore is the slice of the sheets client the repositories use.
type SheetStore interface {
	ReadRange(ctx context.Context, rng string) ([][]string, error)
	AppendRow(ctx context.Context, rng string, row []interface{}) error
	UpdateCells(ctx context.Context, updates map[string][]interface{}) error
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
