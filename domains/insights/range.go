package insights

import "time"

const (
	MinRangeDays     = 7
	MaxRangeDays     = 90
	DefaultRangeDays = 14
)

// Window is a time interval, inclusive on both ends
type Window struct {
	Since time.Time `json:"since"`
	Until time.Time `json:"until"`
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Since) && !t.After(w.Until)
}

// ClampRangeDays normalizes a requested range length. Zero means the
// caller did not ask for one and gets the default; everything else is
// clamped into [MinRangeDays, MaxRangeDays].
func ClampRangeDays(days int) int {
	if days == 0 {
		return DefaultRangeDays
	}
	if days < MinRangeDays {
		return MinRangeDays
	}
	if days > MaxRangeDays {
		return MaxRangeDays
	}
	return days
}

// ResolveWindows derives the current and previous reporting windows from
// a reference time. Current runs from the beginning of the day
// (rangeDays-1) days ago up to now; previous immediately precedes it with
// equal length, ending just before current starts so no instant belongs
// to both.
func ResolveWindows(now time.Time, rangeDays int) (current Window, previous Window) {
	days := ClampRangeDays(rangeDays)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := dayStart.AddDate(0, 0, -(days - 1))

	current = Window{Since: since, Until: now}
	previous = Window{
		Since: since.AddDate(0, 0, -days),
		Until: since.Add(-time.Nanosecond),
	}
	return current, previous
}
