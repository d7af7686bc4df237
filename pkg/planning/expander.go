package planning

import (
	"sort"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExpandedRule is a rule materialized onto a concrete day
type ExpandedRule struct {
	Rule *UnavailabilityRule
	Span date.Timespan
}

// UnavailabilityExpander materializes recurring and one-off rules onto a single day
type UnavailabilityExpander struct {
	Location *time.Location
}

// Expand returns the concrete unavailable intervals of the given day, clamped to
// the day window. Rules not firing on the day, rules suppressed for the day and
// rules entirely outside the window are omitted. The result is sorted by start.
func (expander *UnavailabilityExpander) Expand(rules []*UnavailabilityRule, day time.Time, window date.Timespan) []ExpandedRule {
	expanded := make([]ExpandedRule, 0, len(rules))

	for _, rule := range rules {
		span, applies := rule.AppliesOn(day, expander.Location)
		if !applies {
			continue
		}

		clamped, ok := span.Clamp(window)
		if !ok {
			continue
		}

		expanded = append(expanded, ExpandedRule{Rule: rule, Span: clamped})
	}

	sort.SliceStable(expanded, func(i, j int) bool {
		return expanded[i].Span.Start.Before(expanded[j].Span.Start)
	})

	return expanded
}

// BlocksFor turns expanded rules into unavailable time blocks
func (expander *UnavailabilityExpander) BlocksFor(expanded []ExpandedRule) Blocks {
	blocks := make(Blocks, 0, len(expanded))
	for _, e := range expanded {
		blocks = append(blocks, TimeBlock{
			ID:          primitive.NewObjectID(),
			Kind:        BlockUnavailable,
			Date:        e.Span,
			Title:       e.Rule.Name,
			Description: e.Rule.Description,
			RuleID:      e.Rule.ID,
			Fixed:       true,
		})
	}
	return blocks
}
