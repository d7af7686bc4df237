package date

import (
	"fmt"
	"testing"
	"time"
)

func TestNewGrid(t *testing.T) {
	window := Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 23, 0, 0)}
	grid := NewGrid(window, time.Minute*30)

	if len(grid.Slots) != 34 {
		t.Errorf("expected 34 slots, got %d", len(grid.Slots))
	}

	if !grid.Slots[0].Span.Start.Equal(window.Start) {
		t.Errorf("first slot starts at %s, want %s", grid.Slots[0].Span.Start, window.Start)
	}

	if !grid.Slots[len(grid.Slots)-1].Span.End.Equal(window.End) {
		t.Errorf("last slot ends at %s, want %s", grid.Slots[len(grid.Slots)-1].Span.End, window.End)
	}

	// A trailing remainder shorter than the slot width is dropped
	short := NewGrid(Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 7, 15, 0)}, time.Minute*30)
	if len(short.Slots) != 2 {
		t.Errorf("expected 2 slots, got %d", len(short.Slots))
	}
}

func TestGrid_SlotsNeeded(t *testing.T) {
	grid := NewGrid(Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 23, 0, 0)}, time.Minute*30)

	var slotTests = []struct {
		in  time.Duration
		out int
	}{
		{time.Minute * 30, 1},
		{time.Minute * 45, 2},
		{time.Minute * 60, 2},
		{time.Minute * 61, 3},
		{0, 0},
	}

	for index, tt := range slotTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			if got := grid.SlotsNeeded(tt.in); got != tt.out {
				t.Errorf("SlotsNeeded(%s) = %d, want %d", tt.in, got, tt.out)
			}
		})
	}
}

func TestGrid_FindRun(t *testing.T) {
	window := Timespan{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 12, 0, 0)}

	var runTests = []struct {
		occupied  []Timespan
		needed    int
		notBefore time.Time
		out       int
	}{
		{
			// Case empty grid, run starts at the beginning
			nil,
			2,
			timeDate(2022, 3, 1, 9, 0, 0),
			0,
		},
		{
			// Case first slot blocked, run starts after it
			[]Timespan{{Start: timeDate(2022, 3, 1, 9, 0, 0), End: timeDate(2022, 3, 1, 9, 30, 0)}},
			2,
			timeDate(2022, 3, 1, 9, 0, 0),
			1,
		},
		{
			// Case a partially intersecting block occupies both touched slots
			[]Timespan{{Start: timeDate(2022, 3, 1, 9, 15, 0), End: timeDate(2022, 3, 1, 9, 45, 0)}},
			2,
			timeDate(2022, 3, 1, 9, 0, 0),
			2,
		},
		{
			// Case anchor pushes the run past free slots
			nil,
			2,
			timeDate(2022, 3, 1, 10, 30, 0),
			3,
		},
		{
			// Case run longer than anything available
			[]Timespan{{Start: timeDate(2022, 3, 1, 10, 0, 0), End: timeDate(2022, 3, 1, 10, 30, 0)}},
			5,
			timeDate(2022, 3, 1, 9, 0, 0),
			-1,
		},
	}

	for index, tt := range runTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			grid := NewGrid(window, time.Minute*30)
			for _, span := range tt.occupied {
				grid.MarkOccupied(span)
			}

			if got := grid.FindRun(tt.needed, tt.notBefore); got != tt.out {
				t.Errorf("FindRun() = %d, want %d", got, tt.out)
			}
		})
	}
}

func TestGrid_NextBoundary(t *testing.T) {
	grid := NewGrid(Timespan{Start: timeDate(2022, 3, 1, 6, 0, 0), End: timeDate(2022, 3, 1, 23, 0, 0)}, time.Minute*30)

	var boundaryTests = []struct {
		in  time.Time
		out time.Time
	}{
		{timeDate(2022, 3, 1, 5, 0, 0), timeDate(2022, 3, 1, 6, 0, 0)},
		{timeDate(2022, 3, 1, 6, 0, 0), timeDate(2022, 3, 1, 6, 0, 0)},
		{timeDate(2022, 3, 1, 6, 10, 0), timeDate(2022, 3, 1, 6, 30, 0)},
		{timeDate(2022, 3, 1, 6, 30, 0), timeDate(2022, 3, 1, 6, 30, 0)},
		{timeDate(2022, 3, 1, 6, 31, 0), timeDate(2022, 3, 1, 7, 0, 0)},
	}

	for index, tt := range boundaryTests {
		t.Run(fmt.Sprintf("Case %d", index), func(t *testing.T) {
			if got := grid.NextBoundary(tt.in); !got.Equal(tt.out) {
				t.Errorf("NextBoundary(%s) = %s, want %s", tt.in, got, tt.out)
			}
		})
	}
}
