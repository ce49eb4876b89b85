package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

func TestDayReport_RoundTrip(t *testing.T) {
	shifts := []models.Shift{
		{
			ShiftID: "2026-08-31_Equipe 1_F1", Date: "2026-08-31",
			Team: "Equipe 1", FieldName: "Talhão Norte", FieldID: "F1",
			LeadID: "222", StartTime: "08:00", EndTime: "16:00",
			Workers: 5, Status: models.StatusClosed, HHTotal: "40.00",
			ClosedAt: "2026-08-31T16:00:00-03:00", ClosedBy: "222",
		},
		{
			ShiftID: "2026-08-31_Equipe 2_F2", Date: "2026-08-31",
			Team: "Equipe 2", FieldName: "Talhão Sul", FieldID: "F2",
			LeadID: "444", StartTime: "09:00", Workers: 3,
			Status: models.StatusOpen,
		},
	}

	data, err := DayReport(shifts)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Turnos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "shift_id", rows[0][0])
	assert.Equal(t, "2026-08-31_Equipe 1_F1", rows[1][0])
	assert.Equal(t, "40.00", rows[1][10])
	assert.Equal(t, "OPEN", rows[2][9])
}

func TestDayReport_EmptyDay(t *testing.T) {
	data, err := DayReport(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Turnos")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
