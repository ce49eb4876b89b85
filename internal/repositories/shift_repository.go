package repositories

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// Shifts ledger columns A..N:
// shift_id, date, team, field_name, field_id, lead_id, start_time,
// end_time, workers, status, hh_total, (unused), closed_at, closed_by.
const (
	shiftsRange    = "Shifts!A2:N"
	shiftsFirstRow = 2
)

// ShiftRepository reads and writes the shift ledger. The ledger is an
// append-mostly table; the only in-place mutation is the close of a row.
type ShiftRepository struct {
	store SheetStore

	// claimMu serialises read-then-append claims within this process so
	// two concurrent opens by the same lead cannot both observe "no open
	// shift". Cross-process claims stay best effort.
	claimMu sync.Mutex
}

func NewShiftRepository(store SheetStore) *ShiftRepository {
	return &ShiftRepository{store: store}
}

// FindOpenFor returns the caller's OPEN shift for the given date, or nil.
// The scan trusts that at most one row matches; it takes the first.
func (r *ShiftRepository) FindOpenFor(ctx context.Context, leadID, date string) (*models.Shift, error) {
	rows, err := r.store.ReadRange(ctx, shiftsRange)
	if err != nil {
		return nil, fmt.Errorf("read shifts: %w", err)
	}
	for i, row := range rows {
		s := parseShift(row, shiftsFirstRow+i)
		if s.LeadID == strings.TrimSpace(leadID) && s.Date == date && s.Status == models.StatusOpen {
			return &s, nil
		}
	}
	return nil, nil
}

// ListForDay returns the day's rows in insertion order.
func (r *ShiftRepository) ListForDay(ctx context.Context, date string) ([]models.Shift, error) {
	rows, err := r.store.ReadRange(ctx, shiftsRange)
	if err != nil {
		return nil, fmt.Errorf("read shifts: %w", err)
	}
	var shifts []models.Shift
	for i, row := range rows {
		if s := parseShift(row, shiftsFirstRow+i); s.Date == date {
			shifts = append(shifts, s)
		}
	}
	return shifts, nil
}

// ClaimOpen appends a new OPEN row after re-checking, under the claim
// mutex, that the lead has no OPEN shift for the date. If one exists it is
// returned and nothing is written.
func (r *ShiftRepository) ClaimOpen(ctx context.Context, shift *models.Shift) (*models.Shift, error) {
	r.claimMu.Lock()
	defer r.claimMu.Unlock()

	existing, err := r.FindOpenFor(ctx, shift.LeadID, shift.Date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	row := []interface{}{
		shift.ShiftID,
		shift.Date,
		shift.Team,
		shift.FieldName,
		shift.FieldID,
		shift.LeadID,
		shift.StartTime,
		"", // end_time
		strconv.Itoa(shift.Workers),
		string(shift.Status),
		"", // hh_total
		"", // unused
		"", // closed_at
		"", // closed_by
	}
	if err := r.store.AppendRow(ctx, shiftsRange, row); err != nil {
		return nil, fmt.Errorf("append shift: %w", err)
	}
	return nil, nil
}

// Close mutates only end_time, status, hh_total, closed_at and closed_by of
// the identified row. Everything else on the row is untouched.
func (r *ShiftRepository) Close(ctx context.Context, rowIndex int, endTime, hhTotal, closedAt, closedBy string) error {
	if rowIndex < shiftsFirstRow {
		return fmt.Errorf("close shift: invalid row index %d", rowIndex)
	}
	updates := map[string][]interface{}{
		fmt.Sprintf("Shifts!H%d", rowIndex):               {endTime},
		fmt.Sprintf("Shifts!J%d:K%d", rowIndex, rowIndex): {string(models.StatusClosed), hhTotal},
		fmt.Sprintf("Shifts!M%d:N%d", rowIndex, rowIndex): {closedAt, closedBy},
	}
	if err := r.store.UpdateCells(ctx, updates); err != nil {
		return fmt.Errorf("close shift row %d: %w", rowIndex, err)
	}
	return nil
}

func parseShift(row []string, rowIndex int) models.Shift {
	workers, _ := strconv.Atoi(strings.TrimSpace(cell(row, 8)))
	return models.Shift{
		RowIndex:  rowIndex,
		ShiftID:   strings.TrimSpace(cell(row, 0)),
		Date:      strings.TrimSpace(cell(row, 1)),
		Team:      strings.TrimSpace(cell(row, 2)),
		FieldName: strings.TrimSpace(cell(row, 3)),
		FieldID:   strings.TrimSpace(cell(row, 4)),
		LeadID:    strings.TrimSpace(cell(row, 5)),
		StartTime: strings.TrimSpace(cell(row, 6)),
		EndTime:   strings.TrimSpace(cell(row, 7)),
		Workers:   workers,
		Status:    models.ShiftStatus(strings.TrimSpace(cell(row, 9))),
		HHTotal:   strings.TrimSpace(cell(row, 10)),
		ClosedAt:  strings.TrimSpace(cell(row, 12)),
		ClosedBy:  strings.TrimSpace(cell(row, 13)),
	}
}
