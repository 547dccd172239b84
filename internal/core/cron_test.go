package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCron(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		for _, expr := range []string{"0 0 */2 * *", "* * * * *", "30 6 1,15 * *", "0 12 * * 1"} {
			_, err := ParseCron(expr)
			assert.NoError(t, err, expr)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, expr := range []string{"", "0 0 * *", "0 0 * * * *", "61 0 * * *", "x 0 * * *", "*/0 * * * *"} {
			_, err := ParseCron(expr)
			assert.Error(t, err, expr)
		}
	})
}

func TestCronMatches(t *testing.T) {
	c, err := ParseCron("0 0 */2 * *")
	require.NoError(t, err)

	// Day-of-month steps count from 1, so the cadence fires on odd days.
	assert.True(t, c.Matches(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.Matches(time.Date(2026, 3, 5, 0, 0, 30, 0, time.UTC)))
	assert.False(t, c.Matches(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, c.Matches(time.Date(2026, 3, 1, 0, 1, 0, 0, time.UTC)))
	assert.False(t, c.Matches(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
}

func TestCronDayOfWeek(t *testing.T) {
	// Monday noon only.
	c, err := ParseCron("0 12 * * 1")
	require.NoError(t, err)

	monday := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	assert.True(t, c.Matches(monday))
	assert.False(t, c.Matches(monday.AddDate(0, 0, 1)))
}
