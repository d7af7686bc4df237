package planning

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// now gets overridden in tests
var now = time.Now

// ErrInvalidTimespan is returned when a caller supplies a span whose end is not after its start
var ErrInvalidTimespan = errors.New("timespan end must be after its start")

// Config bundles the tunables of a planning run. Window is a clock template
// whose date component is ignored.
type Config struct {
	Window    date.Timespan
	SlotWidth time.Duration
	Location  *time.Location
	Weights   RankingWeights
	Breaks    BreakPolicy
}

// DefaultConfig returns a config with the stock day window and thresholds
func DefaultConfig(location *time.Location) Config {
	if location == nil {
		location = time.UTC
	}
	return Config{
		Window: date.Timespan{
			Start: time.Date(0, 1, 1, 6, 0, 0, 0, time.UTC),
			End:   time.Date(0, 1, 1, 23, 0, 0, 0, time.UTC),
		},
		SlotWidth: time.Minute * 30,
		Location:  location,
		Weights:   DefaultRankingWeights(),
		Breaks:    DefaultBreakPolicy(),
	}
}

// Engine produces and edits single day plans. All operations are pure relative
// to their inputs; persistence and serialization of concurrent edits are the
// caller's concern.
type Engine struct {
	Config Config
	Logger logger.Interface
}

// NewEngine constructs an engine from a config
func NewEngine(config Config, log logger.Interface) *Engine {
	return &Engine{Config: config, Logger: log}
}

// DeleteEffect tells the caller which rule side effect a block deletion caused
type DeleteEffect struct {
	// SuppressRuleID is set when a recurring rule got suppressed for the plan's date
	SuppressRuleID primitive.ObjectID

	// DeleteRuleID is set when a one-off rule should be removed permanently
	DeleteRuleID primitive.ObjectID
}

// Generate builds the plan of a single day from scratch. day is interpreted in
// the configured location. Tasks marked done and entries failing validation are
// left out; tasks no free run can hold end up in the plan's Unplaced list.
// Identical inputs always produce an identical plan apart from generated block IDs.
func (engine *Engine) Generate(userID primitive.ObjectID, day time.Time, tasks []Task, rules []*UnavailabilityRule) DayPlan {
	location := engine.Config.Location
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, location)
	window := engine.Config.Window.OnDate(day, location)

	plan := DayPlan{
		UserID: userID,
		Date:   day.Format("2006-01-02"),
		Blocks: Blocks{},
	}

	validRules := make([]*UnavailabilityRule, 0, len(rules))
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			plan.Invalid = append(plan.Invalid, Problem{RuleID: rule.ID, Reason: err.Error()})
			continue
		}
		validRules = append(validRules, rule)
	}

	expander := UnavailabilityExpander{Location: location}
	expanded := expander.Expand(validRules, day, window)
	for _, block := range expander.BlocksFor(expanded) {
		plan.Blocks.Add(block)
	}

	pending := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Done {
			continue
		}
		if task.Duration <= 0 {
			plan.Invalid = append(plan.Invalid, Problem{TaskID: task.ID, Reason: "task duration must be positive"})
			continue
		}
		pending = append(pending, task)
	}

	currentTime := now().In(location)
	ranked := engine.Config.Weights.RankTasks(pending, currentTime)

	cursor := window.Start
	if date.SameDay(currentTime, day, location) && currentTime.After(window.Start) {
		cursor = date.NewGrid(window, engine.Config.SlotWidth).NextBoundary(currentTime)
	}

	allocator := SlotAllocator{SlotWidth: engine.Config.SlotWidth}
	for _, task := range ranked {
		span := allocator.Allocate(window, plan.Blocks.Timespans(), task.Duration, cursor)
		if span == nil {
			plan.Unplaced = append(plan.Unplaced, Problem{TaskID: task.ID, Reason: "no free run of slots can hold the task"})
			continue
		}

		plan.Blocks.Add(TimeBlock{
			ID:          primitive.NewObjectID(),
			Kind:        BlockTask,
			Date:        *span,
			Title:       task.Name,
			Description: task.Description,
			TaskID:      task.ID,
		})
		cursor = span.End
	}

	inserter := BreakInserter{Policy: engine.Config.Breaks}
	plan.Blocks = inserter.Insert(plan.Blocks, taskMap(tasks))

	return plan
}

// Reschedule moves the block with the given ID to newStart, keeping its span
// length. The move succeeds only when the new span stays inside the day window
// and conflicts with no other block; on conflict the plan is returned unchanged
// and moved is false. Breaks are rebuilt after a successful move.
func (engine *Engine) Reschedule(plan DayPlan, blockID primitive.ObjectID, newStart time.Time, tasks []Task) (DayPlan, bool) {
	index := plan.Blocks.FindByID(blockID)
	if index < 0 {
		return plan, false
	}

	block := plan.Blocks[index]
	if block.Fixed || block.Kind != BlockTask {
		return plan, false
	}

	location := engine.Config.Location
	day := engine.dayOf(plan)
	window := engine.Config.Window.OnDate(day, location)

	span := date.Timespan{Start: newStart.In(location), End: newStart.In(location).Add(block.Date.Duration())}
	if !window.Contains(span) {
		return plan, false
	}

	if plan.Blocks.ConflictsWith(span, index) {
		return plan, false
	}

	blocks := engine.withoutBreaks(plan.Blocks)
	blocks[blocks.FindByID(blockID)].Date = span

	inserter := BreakInserter{Policy: engine.Config.Breaks}
	plan.Blocks = inserter.Insert(engine.sorted(blocks), taskMap(tasks))

	return plan, true
}

// AddUnavailable applies a new ad-hoc rule to an existing plan. When the
// rule's span is free the block is simply inserted and breaks rebuilt. When it
// conflicts with placed blocks the whole day is regenerated with the rule
// included, so displaced tasks surface in the Unplaced list.
func (engine *Engine) AddUnavailable(plan DayPlan, rule *UnavailabilityRule, tasks []Task, rules []*UnavailabilityRule) (DayPlan, error) {
	if err := rule.Validate(); err != nil {
		return plan, errors.Wrap(ErrInvalidTimespan, err.Error())
	}

	day := engine.dayOf(plan)
	window := engine.Config.Window.OnDate(day, engine.Config.Location)

	expander := UnavailabilityExpander{Location: engine.Config.Location}
	expanded := expander.Expand([]*UnavailabilityRule{rule}, day, window)
	if len(expanded) == 0 {
		// outside the day or its window, nothing to place
		return plan, nil
	}

	span := expanded[0].Span
	if plan.Blocks.ConflictsWith(span, -1) {
		return engine.Generate(plan.UserID, day, tasks, append(rules, rule)), nil
	}

	blocks := engine.withoutBreaks(plan.Blocks)
	blocks.Add(expander.BlocksFor(expanded)[0])

	inserter := BreakInserter{Policy: engine.Config.Breaks}
	plan.Blocks = inserter.Insert(blocks, taskMap(tasks))

	return plan, nil
}

// DeleteBlock removes a block from the plan. Task deletions rebuild the breaks.
// Break deletions just remove the break. Deleting an unavailable block reports
// the rule side effect for the caller to persist, a recurring rule gets
// suppressed for the plan's date while a one-off rule gets deleted outright.
func (engine *Engine) DeleteBlock(plan DayPlan, blockID primitive.ObjectID, tasks []Task, rules []*UnavailabilityRule) (DayPlan, DeleteEffect, error) {
	var effect DeleteEffect

	index := plan.Blocks.FindByID(blockID)
	if index < 0 {
		return plan, effect, errors.Errorf("no block with id %s", blockID.Hex())
	}

	block := plan.Blocks[index]

	switch block.Kind {
	case BlockBreak:
		blocks := plan.Blocks.Copy()
		blocks.RemoveByIndex(index)
		plan.Blocks = blocks
		return plan, effect, nil

	case BlockTask:
		blocks := engine.withoutBreaks(plan.Blocks)
		blocks.RemoveByIndex(blocks.FindByID(blockID))

		inserter := BreakInserter{Policy: engine.Config.Breaks}
		plan.Blocks = inserter.Insert(blocks, taskMap(tasks))
		return plan, effect, nil

	case BlockUnavailable:
		rule := findRule(rules, block.RuleID)
		if rule == nil {
			return plan, effect, errors.Errorf("no rule with id %s", block.RuleID.Hex())
		}

		if rule.Recurrence == RecurrenceNone {
			effect.DeleteRuleID = rule.ID
		} else {
			effect.SuppressRuleID = rule.ID
		}

		blocks := plan.Blocks.Copy()
		blocks.RemoveByIndex(index)
		plan.Blocks = blocks
		return plan, effect, nil
	}

	return plan, effect, errors.Errorf("unknown block kind %s", block.Kind)
}

func (engine *Engine) dayOf(plan DayPlan) time.Time {
	day, err := time.ParseInLocation("2006-01-02", plan.Date, engine.Config.Location)
	if err != nil {
		if engine.Logger != nil {
			engine.Logger.Warning("Plan carries an unparseable date "+plan.Date, err)
		}
		return now().In(engine.Config.Location)
	}
	return day
}

func (engine *Engine) withoutBreaks(blocks Blocks) Blocks {
	kept := make(Blocks, 0, len(blocks))
	for _, block := range blocks {
		if block.Kind == BlockBreak {
			continue
		}
		kept = append(kept, block)
	}
	return kept
}

func (engine *Engine) sorted(blocks Blocks) Blocks {
	result := make(Blocks, 0, len(blocks))
	for _, block := range blocks {
		result.Add(block)
	}
	return result
}

func taskMap(tasks []Task) map[string]Task {
	byID := make(map[string]Task, len(tasks))
	for _, task := range tasks {
		byID[task.ID.Hex()] = task
	}
	return byID
}

func findRule(rules []*UnavailabilityRule, id primitive.ObjectID) *UnavailabilityRule {
	for _, rule := range rules {
		if rule.ID == id {
			return rule
		}
	}
	return nil
}
