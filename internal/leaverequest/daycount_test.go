package leaverequest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/parryG11/hr/internal/config"
)

func date(t *testing.T, v string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", v)
	assert.NoError(t, err)
	return d
}

func TestCountDays(t *testing.T) {
	t.Run("calendar counts every day inclusive", func(t *testing.T) {
		// 2024-03-01 is a Friday
		assert.Equal(t, 5, countDays(config.DayCountCalendar, date(t, "2024-03-01"), date(t, "2024-03-05")))
		assert.Equal(t, 1, countDays(config.DayCountCalendar, date(t, "2024-03-01"), date(t, "2024-03-01")))
	})

	t.Run("business skips weekends", func(t *testing.T) {
		// Fri 01, Sat 02, Sun 03, Mon 04, Tue 05
		assert.Equal(t, 3, countDays(config.DayCountBusiness, date(t, "2024-03-01"), date(t, "2024-03-05")))
		// Sat only
		assert.Equal(t, 0, countDays(config.DayCountBusiness, date(t, "2024-03-02"), date(t, "2024-03-02")))
	})
}
