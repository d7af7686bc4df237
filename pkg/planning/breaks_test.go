package planning

import (
	"testing"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func taskBlockAt(start, end time.Time) TimeBlock {
	return TimeBlock{
		ID:     primitive.NewObjectID(),
		Kind:   BlockTask,
		Date:   date.Timespan{Start: start, End: end},
		TaskID: primitive.NewObjectID(),
	}
}

func breaksOf(blocks Blocks) Blocks {
	var result Blocks
	for _, block := range blocks {
		if block.Kind == BlockBreak {
			result = append(result, block)
		}
	}
	return result
}

func TestBreakInserter_Insert_ShortBreakAfterThreshold(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	// 100 minutes of accumulated work, then a 20 minute gap
	blocks := Blocks{
		taskBlockAt(at(9, 0), at(10, 40)),
		taskBlockAt(at(11, 0), at(11, 30)),
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(blocks, nil)

	inserted := breaksOf(result)
	if len(inserted) != 1 {
		t.Fatalf("expected 1 break, got %d", len(inserted))
	}

	want := date.Timespan{Start: at(10, 40), End: at(10, 55)}
	if inserted[0].Date != want {
		t.Errorf("break placed at %s, expected %s", &inserted[0].Date, &want)
	}
}

func TestBreakInserter_Insert_LongBreakAfterLongWork(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	// 180 minutes of accumulated work earns the long break
	blocks := Blocks{
		taskBlockAt(at(9, 0), at(12, 0)),
		taskBlockAt(at(12, 40), at(13, 10)),
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(blocks, nil)

	inserted := breaksOf(result)
	if len(inserted) != 1 {
		t.Fatalf("expected 1 break, got %d", len(inserted))
	}

	want := date.Timespan{Start: at(12, 0), End: at(12, 30)}
	if inserted[0].Date != want {
		t.Errorf("break placed at %s, expected %s", &inserted[0].Date, &want)
	}
}

func TestBreakInserter_Insert_LongGapResets(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	// the 60 minute gap counts as rest, no break needed afterwards
	blocks := Blocks{
		taskBlockAt(at(9, 0), at(10, 40)),
		taskBlockAt(at(11, 40), at(12, 10)),
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(blocks, nil)

	if len(breaksOf(result)) != 0 {
		t.Errorf("expected no break after a long natural gap")
	}
}

func TestBreakInserter_Insert_GapTooSmall(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	// a break is due but the 10 minute gap cannot hold one, the
	// accumulator keeps running and fires at the next pair
	blocks := Blocks{
		taskBlockAt(at(9, 0), at(10, 40)),
		taskBlockAt(at(10, 50), at(11, 20)),
		taskBlockAt(at(11, 40), at(12, 10)),
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(blocks, nil)

	inserted := breaksOf(result)
	if len(inserted) != 1 {
		t.Fatalf("expected 1 break, got %d", len(inserted))
	}

	want := date.Timespan{Start: at(11, 20), End: at(11, 35)}
	if inserted[0].Date != want {
		t.Errorf("break placed at %s, expected %s", &inserted[0].Date, &want)
	}
}

func TestBreakInserter_Insert_NeverOverlapsOtherBlocks(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	// an unavailable block sits right behind the first task, so even
	// though a break is due and the task gap is wide enough, no break fits
	blocks := Blocks{
		taskBlockAt(at(9, 0), at(10, 40)),
		{
			ID:    primitive.NewObjectID(),
			Kind:  BlockUnavailable,
			Date:  date.Timespan{Start: at(10, 45), End: at(11, 0)},
			Fixed: true,
		},
		taskBlockAt(at(11, 0), at(11, 30)),
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(blocks, nil)

	if len(breaksOf(result)) != 0 {
		t.Errorf("break overlapped a fixed block")
	}
}

func TestBreakInserter_Insert_IntensivePairRest(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2022, 1, 10, hour, minute, 0, 0, time.UTC)
	}

	first := taskBlockAt(at(9, 0), at(9, 30))
	second := taskBlockAt(at(9, 45), at(10, 15))

	taskID1 := first.TaskID
	taskID2 := second.TaskID
	tasks := map[string]Task{
		taskID1.Hex(): {ID: taskID1, Priority: PriorityHigh},
		taskID2.Hex(): {ID: taskID2, Priority: PriorityHigh},
	}

	inserter := BreakInserter{Policy: DefaultBreakPolicy()}
	result := inserter.Insert(Blocks{first, second}, tasks)

	inserted := breaksOf(result)
	if len(inserted) != 1 {
		t.Fatalf("expected 1 rest break, got %d", len(inserted))
	}

	want := date.Timespan{Start: at(9, 30), End: at(9, 40)}
	if inserted[0].Date != want || inserted[0].Title != "Rest" {
		t.Errorf("rest break placed at %s as %q, expected %s as \"Rest\"", &inserted[0].Date, inserted[0].Title, &want)
	}
}
