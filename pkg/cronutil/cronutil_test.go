package cronutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRunDailySchedule(t *testing.T) {
	// 0 9 * * * fires at 09:00 every day.
	before := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	next := NextRun("0 9 * * *", before)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), next)

	after := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	next = NextRun("0 9 * * *", after)
	assert.Equal(t, time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC), next)
}

func TestNextRunEveryFifteenMinutes(t *testing.T) {
	from := time.Date(2025, 3, 10, 8, 7, 0, 0, time.UTC)
	next := NextRun("*/15 * * * *", from)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 15, 0, 0, time.UTC), next)
}

func TestNextRunUnparsableFallsBackToHourly(t *testing.T) {
	from := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	next := NextRun("not a schedule", from)
	assert.Equal(t, from.Add(time.Hour), next)
}

func TestNextRunInTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 13:00 UTC is 09:00 in New York during DST, so the next 09:00
	// local activation is 24 hours away, not the same afternoon.
	from := time.Date(2025, 6, 10, 13, 30, 0, 0, time.UTC)
	next := NextRunIn("0 9 * * *", from, loc)
	assert.Equal(t, time.Date(2025, 6, 11, 9, 0, 0, 0, loc).Unix(), next.Unix())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("*/5 * * * *"))
	assert.NoError(t, Validate("0 9 * * 1"))
	assert.Error(t, Validate(""))
	assert.Error(t, Validate("61 * * * *"))
	assert.Error(t, Validate("* * *"))
}
