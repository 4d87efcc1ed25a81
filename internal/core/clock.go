package core

import "time"

// dateLayout is the calendar-date form stored in usage.lastResetDate.
const dateLayout = "2006-01-02"

// Clock supplies the current time. It is injected into the services so
// tests can drive day rollover deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// calendarDate reduces an instant to the UTC calendar date used for the
// daily-counter rollover.
func calendarDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
