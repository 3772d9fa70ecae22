package core

import "time"

// Calendar boundary helpers. All period math in the ledger and timeline is
// expressed through these so week/month/year ranges stay consistent.

// StartOfWeekSunday returns the most recent Sunday on or before d.
func StartOfWeekSunday(d Date) Date {
	// time.Weekday has Sunday == 0, so the offset is the weekday itself.
	return d.AddDays(-int(d.Weekday()))
}

// StartOfMonth returns the first day of d's calendar month.
func StartOfMonth(d Date) Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// StartOfNextMonth returns the first day of the month after d's.
func StartOfNextMonth(d Date) Date {
	if d.Month() == time.December {
		return NewDate(d.Year()+1, 1, 1)
	}
	return NewDate(d.Year(), int(d.Month())+1, 1)
}

// StartOfYear returns January 1st of d's year.
func StartOfYear(d Date) Date {
	return NewDate(d.Year(), 1, 1)
}

// DaysInMonth returns the number of days in d's calendar month.
func DaysInMonth(d Date) int {
	return StartOfNextMonth(d).AddDays(-1).Day()
}
