package models

import "fmt"

// ShiftStatus is the lifecycle state of a ledger row.
type ShiftStatus string

const (
	StatusOpen   ShiftStatus = "OPEN"
	StatusClosed ShiftStatus = "CLOSED"
)

// Shift is a row of the Shifts ledger.
type Shift struct {
	// RowIndex is the 1-based sheet row the record was read from, used to
	// address in-place updates. Zero for a shift not yet persisted.
	RowIndex int

	ShiftID   string
	Date      string // YYYY-MM-DD in the working timezone
	Team      string
	FieldName string
	FieldID   string
	LeadID    string
	StartTime string // HH:MM
	EndTime   string // HH:MM, empty while OPEN
	Workers   int
	Status    ShiftStatus
	HHTotal   string // person-hours, set once at close; empty while OPEN
	ClosedAt  string // RFC3339 timestamp of the close, audit only
	ClosedBy  string // telegram id that performed the close
}

// ShiftID derives the ledger key from the opening parameters. It is a pure
// function of (date, team, field); two shifts opened the same day for the
// same team and field collide, which the ledger tolerates by design.
func ShiftID(date, team, fieldID string) string {
	return fmt.Sprintf("%s_%s_%s", date, team, fieldID)
}
