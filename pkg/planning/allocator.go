package planning

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

// SlotAllocator places durations into the earliest free run of grid slots
type SlotAllocator struct {
	SlotWidth time.Duration
}

// Allocate finds the earliest run of free slots inside window that can hold
// duration, not starting before anchor. The returned span always covers whole
// slots, so a duration is rounded up to the next slot boundary. Returns nil
// when no run fits.
func (allocator *SlotAllocator) Allocate(window date.Timespan, occupied []date.Timespan, duration time.Duration, anchor time.Time) *date.Timespan {
	grid := date.NewGrid(window, allocator.SlotWidth)

	for _, span := range occupied {
		grid.MarkOccupied(span)
	}

	needed := grid.SlotsNeeded(duration)
	if needed == 0 {
		return nil
	}

	index := grid.FindRun(needed, anchor)
	if index < 0 {
		return nil
	}

	span := grid.SpanOf(index, needed)
	return &span
}
