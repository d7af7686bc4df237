package planning

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BreakPolicy controls when and how long recovery breaks get inserted
type BreakPolicy struct {
	// MaxContinuousWork is the accumulated work after which a break is due
	MaxContinuousWork time.Duration

	ShortBreak time.Duration
	LongBreak  time.Duration

	// LongBreakThreshold is the accumulated work after which the long break is used
	LongBreakThreshold time.Duration

	// LongGap is the natural gap length that counts as rest on its own
	LongGap time.Duration

	// IntensiveRest is inserted between two back-to-back intensive tasks
	// even below MaxContinuousWork, set to 0 to disable
	IntensiveRest time.Duration

	// IntensiveTaskDuration marks a task as intensive by length alone
	IntensiveTaskDuration time.Duration
}

// DefaultBreakPolicy returns the break defaults
func DefaultBreakPolicy() BreakPolicy {
	return BreakPolicy{
		MaxContinuousWork:     time.Minute * 90,
		ShortBreak:            time.Minute * 15,
		LongBreak:             time.Minute * 30,
		LongBreakThreshold:    time.Minute * 180,
		LongGap:               time.Minute * 60,
		IntensiveRest:         time.Minute * 10,
		IntensiveTaskDuration: time.Minute * 90,
	}
}

// BreakInserter post-processes a placed day and fills gaps with break blocks
type BreakInserter struct {
	Policy BreakPolicy
}

// Insert walks the placed task blocks in start order and inserts break blocks
// into the gaps between consecutive pairs. A running work accumulator decides
// when a break is due; it resets after an inserted break and after a natural
// gap of at least LongGap. Breaks only consume existing gaps, they never move
// or overlap other blocks. tasks maps task IDs to their source tasks and is
// used for the intensive pair check.
func (inserter *BreakInserter) Insert(blocks Blocks, tasks map[string]Task) Blocks {
	result := make(Blocks, len(blocks))
	copy(result, blocks)

	var taskBlocks []TimeBlock
	for _, block := range blocks {
		if block.Kind == BlockTask {
			taskBlocks = append(taskBlocks, block)
		}
	}

	var accumulated time.Duration
	for i, block := range taskBlocks {
		accumulated += block.Date.Duration()

		if i == len(taskBlocks)-1 {
			break
		}

		next := taskBlocks[i+1]
		gap := next.Date.Start.Sub(block.Date.End)

		if gap >= inserter.Policy.LongGap {
			accumulated = 0
			continue
		}

		var length time.Duration
		title := "Break"

		if accumulated >= inserter.Policy.MaxContinuousWork && gap >= inserter.Policy.ShortBreak {
			length = inserter.Policy.ShortBreak
			if accumulated >= inserter.Policy.LongBreakThreshold {
				length = inserter.Policy.LongBreak
			}
		} else if inserter.Policy.IntensiveRest > 0 &&
			inserter.isIntensive(block, tasks) && inserter.isIntensive(next, tasks) {
			length = inserter.Policy.IntensiveRest
			title = "Rest"
		}

		if length == 0 {
			continue
		}

		span := date.Timespan{Start: block.Date.End, End: block.Date.End.Add(length)}
		if span.End.After(next.Date.Start) {
			continue
		}
		if result.ConflictsWith(span, -1) {
			continue
		}

		result.Add(TimeBlock{
			ID:    primitive.NewObjectID(),
			Kind:  BlockBreak,
			Date:  span,
			Title: title,
		})
		accumulated = 0
	}

	return result
}

func (inserter *BreakInserter) isIntensive(block TimeBlock, tasks map[string]Task) bool {
	if block.Date.Duration() >= inserter.Policy.IntensiveTaskDuration {
		return true
	}
	task, ok := tasks[block.TaskID.Hex()]
	return ok && task.Priority == PriorityHigh
}
