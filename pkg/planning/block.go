package planning

import (
	"sort"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockKind tells what a time block represents
type BlockKind string

// The kinds of blocks a day plan consists of
const (
	BlockTask        BlockKind = "task"
	BlockUnavailable BlockKind = "unavailable"
	BlockBreak       BlockKind = "break"
)

// TimeBlock is a single placed interval of a day plan
type TimeBlock struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Kind        BlockKind          `json:"kind" bson:"kind"`
	Date        date.Timespan      `json:"date" bson:"date"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`

	// TaskID is set on task blocks, RuleID on unavailable blocks
	TaskID primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	RuleID primitive.ObjectID `json:"ruleId,omitempty" bson:"ruleId,omitempty"`

	// Fixed blocks cannot be moved by a reschedule
	Fixed bool `json:"fixed" bson:"fixed"`
}

// Blocks is a slice of time blocks kept sorted by start time
type Blocks []TimeBlock

// Add inserts the block keeping the slice sorted
func (b *Blocks) Add(block TimeBlock) {
	i := sort.Search(len(*b), func(i int) bool {
		return (*b)[i].Date.Start.After(block.Date.Start)
	})
	*b = append(*b, TimeBlock{})
	copy((*b)[i+1:], (*b)[i:])
	(*b)[i] = block
}

// RemoveByIndex removes the block at index i
func (b *Blocks) RemoveByIndex(i int) {
	*b = append((*b)[:i], (*b)[i+1:]...)
}

// Copy returns a detached copy so edits don't write through to the
// caller's backing array
func (b Blocks) Copy() Blocks {
	copied := make(Blocks, len(b))
	copy(copied, b)
	return copied
}

// FindByID looks a block up by its ID and returns its index or -1
func (b Blocks) FindByID(id primitive.ObjectID) int {
	for i, block := range b {
		if block.ID == id {
			return i
		}
	}
	return -1
}

// ConflictsWith reports whether any block except the one at index skip
// overlaps the given timespan. Pass skip -1 to check all blocks.
func (b Blocks) ConflictsWith(span date.Timespan, skip int) bool {
	for i, block := range b {
		if i == skip {
			continue
		}
		if block.Date.IntersectsWith(span) {
			return true
		}
	}
	return false
}

// Timespans returns the occupied intervals of all blocks
func (b Blocks) Timespans() []date.Timespan {
	spans := make([]date.Timespan, 0, len(b))
	for _, block := range b {
		spans = append(spans, block.Date)
	}
	return spans
}

// Problem describes why a task or rule was left out of a plan
type Problem struct {
	TaskID primitive.ObjectID `json:"taskId,omitempty" bson:"taskId,omitempty"`
	RuleID primitive.ObjectID `json:"ruleId,omitempty" bson:"ruleId,omitempty"`
	Reason string             `json:"reason" bson:"reason"`
}

// DayPlan is the generated schedule of a single day
type DayPlan struct {
	UserID primitive.ObjectID `json:"userId" bson:"userId"`

	// Date is the plan's day formatted as 2006-01-02 in the user's timezone
	Date string `json:"date" bson:"date"`

	Blocks Blocks `json:"blocks" bson:"blocks"`

	// Unplaced lists tasks no free run of slots could hold
	Unplaced []Problem `json:"unplaced,omitempty" bson:"unplaced,omitempty"`

	// Invalid lists entries rejected before placement
	Invalid []Problem `json:"invalid,omitempty" bson:"invalid,omitempty"`
}
