// Package export renders a day's ledger rows as an Excel workbook.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

var header = []string{
	"shift_id", "date", "team", "field_name", "field_id", "lead_id",
	"start_time", "end_time", "workers", "status", "hh_total",
	"closed_at", "closed_by",
}

// DayReport builds an .xlsx with one row per shift, in ledger order. The
// caller names the file after the day it covers.
func DayReport(shifts []models.Shift) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Turnos"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, s := range shifts {
		values := []interface{}{
			s.ShiftID, s.Date, s.Team, s.FieldName, s.FieldID, s.LeadID,
			s.StartTime, s.EndTime, s.Workers, string(s.Status), s.HHTotal,
			s.ClosedAt, s.ClosedBy,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
