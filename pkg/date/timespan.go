package date

import (
	"fmt"
	"sort"
	"time"
)

// TimeBeforeOrEquals returns whether t1 is before or equal t2
func TimeBeforeOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() <= t2.UnixNano()
}

// TimeAfterOrEquals returns whether t1 is after or equal t2
func TimeAfterOrEquals(t1 time.Time, t2 time.Time) bool {
	return t1.UnixNano() >= t2.UnixNano()
}

// Timespan is a simple timespan between two times/dates
type Timespan struct {
	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end"`
}

// Duration simply gets the duration of a Timespan
func (t *Timespan) Duration() time.Duration {
	return t.End.Sub(t.Start)
}

// IsStartBeforeEnd checks if start is earlier than end
func (t *Timespan) IsStartBeforeEnd() bool {
	return t.Start.Before(t.End)
}

// String prints a timespan string
func (t *Timespan) String() string {
	return fmt.Sprintf("%s - %s", t.Start, t.End)
}

// In returns a copy of the Timespan with both times in the given location
func (t Timespan) In(location *time.Location) Timespan {
	t.Start = t.Start.In(location)
	t.End = t.End.In(location)

	return t
}

// IntersectsWith checks if one timespan intersects with another.
// Touching endpoints do not intersect.
func (t *Timespan) IntersectsWith(timespan Timespan) bool {
	return t.Start.Before(timespan.End) && t.End.After(timespan.Start)
}

// Contains checks if timespan t contains another Timespan timespan
func (t *Timespan) Contains(timespan Timespan) bool {
	return TimeAfterOrEquals(timespan.Start, t.Start) &&
		TimeBeforeOrEquals(timespan.End, t.End)
}

// Clamp cuts a Timespan to the bounds of another Timespan; the second return
// value is false when the two don't intersect at all
func (t *Timespan) Clamp(bounds Timespan) (Timespan, bool) {
	if !t.IntersectsWith(bounds) {
		return Timespan{}, false
	}

	clamped := *t
	if clamped.Start.Before(bounds.Start) {
		clamped.Start = bounds.Start
	}
	if clamped.End.After(bounds.End) {
		clamped.End = bounds.End
	}

	return clamped, true
}

func min(a, b time.Time) time.Time {
	if a.Unix() < b.Unix() {
		return a
	}
	return b
}

func max(a, b time.Time) time.Time {
	if a.Unix() > b.Unix() {
		return a
	}
	return b
}

// MergeTimespans merges Timespan structs together in case they overlap, they don't have to be presorted
func MergeTimespans(timespans []Timespan) []Timespan {
	if len(timespans) == 0 {
		return nil
	}

	sort.Slice(timespans, func(i, j int) bool {
		return timespans[i].Start.Before(timespans[j].Start)
	})

	index := 0

	for i := 1; i < len(timespans); i++ {
		if timespans[index].End.Unix() >= timespans[i].Start.Unix() {
			timespans[index].End = max(timespans[index].End, timespans[i].End)
			timespans[index].Start = min(timespans[index].Start, timespans[i].Start)
		} else {
			index++
			timespans[index] = timespans[i]
		}
	}

	var mergedTimespans []Timespan
	for i := 0; i <= index; i++ {
		mergedTimespans = append(mergedTimespans, timespans[i])
	}

	return mergedTimespans
}

// NewTimeFromDateAndClock combines the date component of date with the clock component of clock
func NewTimeFromDateAndClock(date time.Time, clock time.Time, location *time.Location) time.Time {
	year, month, day := date.Date()
	hour, minute, second := clock.Clock()
	return time.Date(year, month, day, hour, minute, second, 0, location)
}

// OnDate materializes a clock-template Timespan (dates of year 0) onto a concrete date
func (t Timespan) OnDate(date time.Time, location *time.Location) Timespan {
	return Timespan{
		Start: NewTimeFromDateAndClock(date, t.Start, location),
		End:   NewTimeFromDateAndClock(date, t.End, location),
	}
}

// SameDay checks whether two times fall on the same calendar day in the given location
func SameDay(t1 time.Time, t2 time.Time, location *time.Location) bool {
	y1, m1, d1 := t1.In(location).Date()
	y2, m2, d2 := t2.In(location).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
