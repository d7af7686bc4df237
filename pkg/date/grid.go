package date

import "time"

// Slot is a single fixed-width cell of a Grid
type Slot struct {
	Span     Timespan
	Occupied bool
}

// Grid discretizes a bounded window into a monotonically increasing sequence
// of fixed-width slots. A trailing remainder shorter than the slot width is
// not part of the grid.
type Grid struct {
	SlotWidth time.Duration
	Slots     []Slot
}

// NewGrid builds a Grid covering window with slots of slotWidth
func NewGrid(window Timespan, slotWidth time.Duration) *Grid {
	grid := Grid{SlotWidth: slotWidth}

	for start := window.Start; !start.Add(slotWidth).After(window.End); start = start.Add(slotWidth) {
		grid.Slots = append(grid.Slots, Slot{
			Span: Timespan{Start: start, End: start.Add(slotWidth)},
		})
	}

	return &grid
}

// SlotsNeeded returns how many slots a duration occupies, rounding up
func (g *Grid) SlotsNeeded(duration time.Duration) int {
	if duration <= 0 {
		return 0
	}

	needed := int(duration / g.SlotWidth)
	if duration%g.SlotWidth != 0 {
		needed++
	}

	return needed
}

// MarkOccupied flips every slot that intersects the given timespan to occupied
func (g *Grid) MarkOccupied(span Timespan) {
	for i := range g.Slots {
		if g.Slots[i].Span.IntersectsWith(span) {
			g.Slots[i].Occupied = true
		}
	}
}

// FindRun returns the first index of a run of at least needed consecutive free
// slots starting no earlier than notBefore, or -1 if no such run exists
func (g *Grid) FindRun(needed int, notBefore time.Time) int {
	if needed <= 0 {
		return -1
	}

	run := 0
	for i := range g.Slots {
		if g.Slots[i].Occupied || g.Slots[i].Span.Start.Before(notBefore) {
			run = 0
			continue
		}

		run++
		if run == needed {
			return i - needed + 1
		}
	}

	return -1
}

// SpanOf returns the concrete interval covered by count slots starting at index
func (g *Grid) SpanOf(index int, count int) Timespan {
	return Timespan{
		Start: g.Slots[index].Span.Start,
		End:   g.Slots[index].Span.Start.Add(time.Duration(count) * g.SlotWidth),
	}
}

// NextBoundary rounds t up to the next slot boundary of the grid; t values at
// or before the grid start map to the grid start
func (g *Grid) NextBoundary(t time.Time) time.Time {
	if len(g.Slots) == 0 {
		return t
	}

	start := g.Slots[0].Span.Start
	if !t.After(start) {
		return start
	}

	offset := t.Sub(start)
	steps := offset / g.SlotWidth
	if offset%g.SlotWidth != 0 {
		steps++
	}

	return start.Add(steps * g.SlotWidth)
}
