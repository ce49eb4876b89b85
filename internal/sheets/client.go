// Package sheets wraps the Google Sheets API with the three operations the
// repositories need: bulk range read, row append and cell update. All
// filtering happens above this layer; the spreadsheet has no query language.
package sheets

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// StoreMetrics receives one record per spreadsheet round trip.
type StoreMetrics interface {
	RecordStoreCall(op string, err error, elapsed time.Duration)
}

// Client talks to a single spreadsheet. Every call carries a bounded
// timeout; a timed-out call is reported to the caller as a plain error and
// treated as a store failure upstream.
type Client struct {
	srv           *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	log           *zap.Logger
	metrics       StoreMetrics
}

// NewClient builds the Sheets service from a service-account credentials
// file and binds it to one spreadsheet.
func NewClient(ctx context.Context, spreadsheetID, credentialsFile string, timeout time.Duration, log *zap.Logger, m StoreMetrics) (*Client, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("init google sheets service: %w", err)
	}
	return &Client{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		timeout:       timeout,
		log:           log,
		metrics:       m,
	}, nil
}

// ReadRange fetches a range and renders every cell as a string, the way the
// values API returns user-entered data.
func (c *Client) ReadRange(ctx context.Context, rng string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	c.record("read", err, start)
	if err != nil {
		c.log.Error("sheets read failed", zap.String("range", rng), zap.Error(err))
		return nil, fmt.Errorf("read range %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		strRow := make([]string, 0, len(row))
		for _, cell := range row {
			strRow = append(strRow, fmt.Sprintf("%v", cell))
		}
		rows = append(rows, strRow)
	}
	return rows, nil
}

// AppendRow adds one row after the last row of the range's table.
func (c *Client) AppendRow(ctx context.Context, rng string, row []interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, rng, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	c.record("append", err, start)
	if err != nil {
		c.log.Error("sheets append failed", zap.String("range", rng), zap.Error(err))
		return fmt.Errorf("append to %s: %w", rng, err)
	}
	return nil
}

// UpdateCells writes several disjoint ranges in one batch. Values outside
// the given ranges are untouched.
func (c *Client) UpdateCells(ctx context.Context, updates map[string][]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data := make([]*sheets.ValueRange, 0, len(updates))
	for rng, row := range updates {
		data = append(data, &sheets.ValueRange{
			Range:  rng,
			Values: [][]interface{}{row},
		})
	}

	start := time.Now()
	_, err := c.srv.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}).Context(ctx).Do()
	c.record("update", err, start)
	if err != nil {
		c.log.Error("sheets batch update failed", zap.Int("ranges", len(data)), zap.Error(err))
		return fmt.Errorf("batch update: %w", err)
	}
	return nil
}

func (c *Client) record(op string, err error, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordStoreCall(op, err, time.Since(start))
	}
}
