package hours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonHours_FullDay(t *testing.T) {
	hh, err := PersonHours("08:00", "16:00", 5)
	require.NoError(t, err)
	assert.Equal(t, 40.0, hh)
}

func TestPersonHours_FractionalHours(t *testing.T) {
	hh, err := PersonHours("08:00", "12:30", 3)
	require.NoError(t, err)
	assert.Equal(t, 13.5, hh)
}

func TestPersonHours_RoundsToTwoDecimals(t *testing.T) {
	// 7h05 = 7.0833... hours; ×3 = 21.25 exactly, ×7 = 49.5833... → 49.58.
	hh, err := PersonHours("08:00", "15:05", 7)
	require.NoError(t, err)
	assert.Equal(t, 49.58, hh)
}

func TestPersonHours_NegativeSpanClampsToZero(t *testing.T) {
	hh, err := PersonHours("22:00", "06:00", 4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hh)
}

func TestPersonHours_ZeroSpan(t *testing.T) {
	hh, err := PersonHours("09:15", "09:15", 10)
	require.NoError(t, err)
	assert.Equal(t, 0.0, hh)
}

func TestPersonHours_InvalidClock(t *testing.T) {
	_, err := PersonHours("8 da manhã", "16:00", 5)
	assert.Error(t, err)

	_, err = PersonHours("08:00", "", 5)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "40.00", Format(40))
	assert.Equal(t, "13.50", Format(13.5))
	assert.Equal(t, "49.58", Format(49.58))
}
