package leaverequest

import (
	"time"

	"github.com/parryG11/hr/internal/config"
)

// countDays returns how many leave days the inclusive range consumes.
// Calendar mode counts every day; business mode skips weekends.
func countDays(mode config.DayCountMode, startDate, endDate time.Time) int {
	if mode == config.DayCountCalendar {
		return int(endDate.Sub(startDate).Hours()/24) + 1
	}

	days := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
