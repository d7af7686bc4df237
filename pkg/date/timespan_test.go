package date

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func timeDate(year int, month time.Month, day int, hour int, min int, seconds int) time.Time {
	loc, _ := time.LoadLocation("Local")
	return time.Date(year, month, day, hour, min, seconds, 0, loc)
}

func getLocation() *time.Location {
	loc, _ := time.LoadLocation("Local")
	return loc
}

func TestTimespan_IntersectsWith(t *testing.T) {
	var intersectionTests = []struct {
		a   Timespan
		b   Timespan
		out bool
	}{
		{
			// Case overlap in the middle
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 11, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 10, 0, 0), End: timeDate(2022, 3, 1, 12, 0, 0)},
			true,
		},
		{
			// Case touching endpoints is not an overlap
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 10, 0, 0), End: timeDate(2022, 3, 1, 11, 0, 0)},
			false,
		},
		{
			// Case disjoint
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 12, 0, 0), End: timeDate(2022, 3, 1, 13, 0, 0)},
			false,
		},
		{
			// Case contained
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 13, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 10, 0, 0), End: timeDate(2022, 3, 1, 11, 0, 0)},
			true,
		},
	}

	for index, tt := range intersectionTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			if got := tt.a.IntersectsWith(tt.b); got != tt.out {
				t.Errorf("IntersectsWith() = %v, want %v", got, tt.out)
			}
			if got := tt.b.IntersectsWith(tt.a); got != tt.out {
				t.Errorf("IntersectsWith() reversed = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestTimespan_Clamp(t *testing.T) {
	bounds := Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 23, 0, 0)}

	var clampTests = []struct {
		in  Timespan
		out Timespan
		ok  bool
	}{
		{
			// Case fully inside
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
			true,
		},
		{
			// Case overflows the start
			Timespan{Start: timeDate(2022, 3, 1, 5, 0, 0), End: timeDate(2022, 3, 1, 7, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 7, 0, 0)},
			true,
		},
		{
			// Case overflows the end
			Timespan{Start: timeDate(2022, 3, 1, 22, 0, 0), End: timeDate(2022, 3, 2, 1, 0, 0)},
			Timespan{Start: timeDate(2022, 3, 1, 22, 0, 0), End: timeDate(2022, 3, 1, 23, 0, 0)},
			true,
		},
		{
			// Case completely outside
			Timespan{Start: timeDate(2022, 3, 1, 23, 30, 0), End: timeDate(2022, 3, 2, 1, 0, 0)},
			Timespan{},
			false,
		},
	}

	for index, tt := range clampTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			got, ok := tt.in.Clamp(bounds)
			if ok != tt.ok {
				t.Errorf("Clamp() ok = %v, want %v", ok, tt.ok)
			}
			if !reflect.DeepEqual(got, tt.out) {
				t.Errorf("Clamp() = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestMergeTimespans(t *testing.T) {
	var mergeTests = []struct {
		in  []Timespan
		out []Timespan
	}{
		{
			// Case overlapping pair
			[]Timespan{
				{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 11, 0, 0)},
				{Start: timeDate(2022, 3, 1, 10, 0, 0), End: timeDate(2022, 3, 1, 12, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 12, 0, 0)},
			},
		},
		{
			// Case disjoint pair stays disjoint
			[]Timespan{
				{Start: timeDate(2022, 3, 1, 13, 0, 0), End: timeDate(2022, 3, 1, 14, 0, 0)},
				{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
			},
			[]Timespan{
				{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 10, 0, 0)},
				{Start: timeDate(2022, 3, 1, 13, 0, 0), End: timeDate(2022, 3, 1, 14, 0, 0)},
			},
		},
		{
			// Case empty input
			nil,
			nil,
		},
	}

	for index, tt := range mergeTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			if got := MergeTimespans(tt.in); !reflect.DeepEqual(got, tt.out) {
				t.Errorf("MergeTimespans() = %v, want %v", got, tt.out)
			}
		})
	}
}

func TestTimespan_OnDate(t *testing.T) {
	template := Timespan{
		Start: time.Date(0, 1, 1, 12, 30, 0, 0, getLocation()),
		End:   time.Date(0, 1, 1, 14, 0, 0, 0, getLocation()),
	}

	day := timeDate(2022, 3, 15, 0, 0, 0)
	got := template.OnDate(day, getLocation())
	want := Timespan{Start: timeDate(2022, 3, 15, 12, 30, 0), End: timeDate(2022, 3, 15, 14, 0, 0)}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("OnDate() = %v, want %v", got, want)
	}
}

func TestTimespan_OnDate_OnReturnValue(t *testing.T) {
	clock := func(startHour, endHour int) Timespan {
		return Timespan{
			Start: time.Date(0, 1, 1, startHour, 0, 0, 0, getLocation()),
			End:   time.Date(0, 1, 1, endHour, 0, 0, 0, getLocation()),
		}
	}

	// has to work on an unaddressable value straight from a call
	got := clock(9, 17).OnDate(timeDate(2022, 3, 15, 0, 0, 0), getLocation())
	want := Timespan{Start: timeDate(2022, 3, 15, 9, 0, 0), End: timeDate(2022, 3, 15, 17, 0, 0)}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("OnDate() = %v, want %v", got, want)
	}
}

func TestTimespan_InReturnsCopy(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	span := Timespan{Start: timeDate(2022, 3, 15, 9, 0, 0), End: timeDate(2022, 3, 15, 10, 0, 0)}

	converted := span.In(zone)
	if converted.Start.Location() != zone || converted.End.Location() != zone {
		t.Errorf("In() left locations %v and %v", converted.Start.Location(), converted.End.Location())
	}
	if !converted.Start.Equal(span.Start) || !converted.End.Equal(span.End) {
		t.Error("In() changed the instants")
	}
	if span.Start.Location() == zone || span.End.Location() == zone {
		t.Error("In() mutated the original timespan")
	}
}

func TestSameDay(t *testing.T) {
	if !SameDay(timeDate(2022, 3, 15, 0, 5, 0), timeDate(2022, 3, 15, 23, 55, 0), getLocation()) {
		t.Error("expected times on the same calendar day")
	}

	if SameDay(timeDate(2022, 3, 15, 23, 55, 0), timeDate(2022, 3, 16, 0, 5, 0), getLocation()) {
		t.Error("expected times on different calendar days")
	}
}
