package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlots_HalfHourInOneHour(t *testing.T) {
	got, err := GenerateSlots("09:00", "10:00", 30)
	require.NoError(t, err)
	assert.Equal(t, []Window{{"09:00", "09:30"}, {"09:30", "10:00"}}, got)
}

func TestGenerateSlots_DiscardsTrailingPartial(t *testing.T) {
	got, err := GenerateSlots("09:00", "10:10", 30)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10:00", got[len(got)-1].End)

	end, _ := ParseClock("10:10")
	for _, w := range got {
		e, err := ParseClock(w.End)
		require.NoError(t, err)
		assert.LessOrEqual(t, e, end)
	}
}

func TestGenerateSlots_DurationLongerThanRange(t *testing.T) {
	got, err := GenerateSlots("09:00", "09:20", 30)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGenerateSlots_Invalid(t *testing.T) {
	_, err := GenerateSlots("10:00", "09:00", 30)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = GenerateSlots("09:00", "10:00", 0)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = GenerateSlots("9am", "10:00", 15)
	assert.Error(t, err)

	_, err = GenerateSlots("09:00", "24:00", 15)
	assert.Error(t, err)
}

func TestClockRoundTrip(t *testing.T) {
	m, err := ParseClock("13:45")
	require.NoError(t, err)
	assert.Equal(t, 13*60+45, m)
	assert.Equal(t, "13:45", FormatClock(m))
}
