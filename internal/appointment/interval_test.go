package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2024, time.January, 15, hour, min, 0, 0, time.Local)
}

func TestIntervalOf(t *testing.T) {
	a := Appointment{Date: at(9, 0), Duration: 45}
	iv := IntervalOf(a)
	assert.Equal(t, at(9, 0), iv.Start)
	assert.Equal(t, at(9, 45), iv.End)

	// no duration falls back to the default
	iv = IntervalOf(Appointment{Date: at(9, 0)})
	assert.Equal(t, at(9, 30), iv.End)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		x, y Interval
		want bool
	}{
		{
			name: "partial overlap",
			x:    Interval{at(9, 0), at(9, 30)},
			y:    Interval{at(9, 15), at(9, 45)},
			want: true,
		},
		{
			name: "identical",
			x:    Interval{at(9, 0), at(9, 30)},
			y:    Interval{at(9, 0), at(9, 30)},
			want: true,
		},
		{
			name: "containment",
			x:    Interval{at(9, 0), at(11, 0)},
			y:    Interval{at(9, 30), at(9, 45)},
			want: true,
		},
		{
			name: "touching end to start",
			x:    Interval{at(9, 0), at(9, 30)},
			y:    Interval{at(9, 30), at(10, 0)},
			want: false,
		},
		{
			name: "disjoint",
			x:    Interval{at(9, 0), at(9, 30)},
			y:    Interval{at(10, 0), at(10, 30)},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.x, tt.y))
			assert.Equal(t, tt.want, Overlaps(tt.y, tt.x), "overlap must be symmetric")
		})
	}
}

func TestSameCalendarDay(t *testing.T) {
	assert.True(t, SameCalendarDay(at(0, 0), at(23, 59)))
	assert.False(t, SameCalendarDay(at(23, 59), at(23, 59).Add(2*time.Minute)))
	assert.False(t, SameCalendarDay(at(9, 0), at(9, 0).AddDate(0, 1, 0)))
}

func TestSameDayUsesGivenLocation(t *testing.T) {
	// 23:30 and 00:30 UTC are different days in UTC but the same day at UTC+2.
	a := time.Date(2024, time.January, 15, 23, 30, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 16, 0, 30, 0, 0, time.UTC)

	assert.False(t, sameDayIn(a, b, time.UTC))
	assert.True(t, sameDayIn(a, b, time.FixedZone("UTC+2", 2*60*60)))
}
