package planning

import (
	"testing"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

func TestSlotAllocator_Allocate(t *testing.T) {
	location := time.UTC
	day := time.Date(2022, 1, 10, 0, 0, 0, 0, location)
	window := clockSpan(9, 0, 17, 0).OnDate(day, location)
	allocator := SlotAllocator{SlotWidth: time.Minute * 30}

	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, location)
	}

	cases := []struct {
		occupied []date.Timespan
		duration time.Duration
		anchor   time.Time
		want     *date.Timespan
	}{
		// empty day, placement starts at the window start
		{
			nil, time.Hour, window.Start,
			&date.Timespan{Start: at(9, 0), End: at(10, 0)},
		},
		// 45 minutes round up to two slots
		{
			nil, time.Minute * 45, window.Start,
			&date.Timespan{Start: at(9, 0), End: at(10, 0)},
		},
		// occupied start pushes the run behind it
		{
			[]date.Timespan{{Start: at(9, 0), End: at(10, 0)}}, time.Minute * 30, window.Start,
			&date.Timespan{Start: at(10, 0), End: at(10, 30)},
		},
		// anchor skips free slots before it
		{
			nil, time.Minute * 30, at(14, 0),
			&date.Timespan{Start: at(14, 0), End: at(14, 30)},
		},
		// a gap too small for the duration gets skipped
		{
			[]date.Timespan{{Start: at(9, 30), End: at(12, 0)}}, time.Hour, window.Start,
			&date.Timespan{Start: at(12, 0), End: at(13, 0)},
		},
		// nothing fits before the window end
		{
			[]date.Timespan{{Start: at(9, 30), End: at(17, 0)}}, time.Minute * 45, window.Start,
			nil,
		},
	}

	for i, tt := range cases {
		got := allocator.Allocate(window, tt.occupied, tt.duration, tt.anchor)

		if tt.want == nil {
			if got != nil {
				t.Errorf("Case %d: expected no placement, got %s", i, got)
			}
			continue
		}

		if got == nil {
			t.Errorf("Case %d: expected %s, got no placement", i, tt.want)
			continue
		}

		if *got != *tt.want {
			t.Errorf("Case %d: expected %s, got %s", i, tt.want, got)
		}
	}
}

func TestSlotAllocator_Allocate_RoundingBound(t *testing.T) {
	location := time.UTC
	day := time.Date(2022, 1, 10, 0, 0, 0, 0, location)
	window := clockSpan(9, 0, 17, 0).OnDate(day, location)
	allocator := SlotAllocator{SlotWidth: time.Minute * 30}

	durations := []time.Duration{
		time.Minute * 10,
		time.Minute * 30,
		time.Minute * 45,
		time.Minute * 100,
	}

	for i, duration := range durations {
		span := allocator.Allocate(window, nil, duration, window.Start)
		if span == nil {
			t.Fatalf("Case %d: expected a placement", i)
		}

		placed := span.Duration()
		if placed < duration || placed >= duration+time.Minute*30 {
			t.Errorf("Case %d: %s placed as %s, outside the rounding bound", i, duration, placed)
		}
	}
}
