package appointment

import "time"

// Interval is the half-open range [Start, End) an appointment occupies.
type Interval struct {
	Start time.Time
	End   time.Time
}

func IntervalOf(a Appointment) Interval {
	return Interval{Start: a.Date, End: a.EndsAt()}
}

// Overlaps reports whether x and y share any instant. Intervals that only
// touch (one ends exactly when the other starts) do not overlap.
func Overlaps(x, y Interval) bool {
	return x.Start.Before(y.End) && y.Start.Before(x.End)
}

// SameCalendarDay compares the local calendar dates of a and b.
func SameCalendarDay(a, b time.Time) bool {
	return sameDayIn(a, b, time.Local)
}

func sameDayIn(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// dayStart truncates t to local midnight.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
