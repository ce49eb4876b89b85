// Package hours computes the person-hours of a finished shift.
package hours

import (
	"fmt"
	"math"
	"time"
)

const clockLayout = "15:04"

// PersonHours multiplies the elapsed time between two same-day clock times
// by the worker headcount, rounded to 2 decimal places. A negative span
// (midnight crossing, clock skew) clamps to zero: overnight shifts are not
// modelled. Callers must not invoke this with workers <= 0.
func PersonHours(start, end string, workers int) (float64, error) {
	s, err := time.Parse(clockLayout, start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q: %w", start, err)
	}
	e, err := time.Parse(clockLayout, end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q: %w", end, err)
	}

	h := e.Sub(s).Hours()
	if h < 0 {
		h = 0
	}
	return math.Round(h*float64(workers)*100) / 100, nil
}

// Format renders a person-hours value the way the ledger stores it.
func Format(hh float64) string {
	return fmt.Sprintf("%.2f", hh)
}
