package planning

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recurrence describes how often an unavailability rule repeats
type Recurrence string

// The recurrence modes a rule can have
const (
	RecurrenceNone   Recurrence = ""
	RecurrenceDaily  Recurrence = "daily"
	RecurrenceWeekly Recurrence = "weekly"
)

// UnavailabilityRule describes a period of the day a user cannot be scheduled in.
// One-off rules carry a concrete timespan; recurring rules carry clock times whose
// date component is ignored and get materialized onto each matching day.
type UnavailabilityRule struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`

	Name        string        `json:"name" bson:"name" validate:"required"`
	Description string        `json:"description" bson:"description"`
	Span        date.Timespan `json:"span" bson:"span" validate:"required"`
	Recurrence  Recurrence    `json:"recurrence" bson:"recurrence" validate:"omitempty,oneof=daily weekly"`

	// Weekdays are the days a weekly rule fires on, 0 is Sunday through 6 is Saturday
	Weekdays []int `json:"weekdays,omitempty" bson:"weekdays,omitempty" validate:"omitempty,dive,min=0,max=6"`

	// SuppressedOn lists dates, formatted as 2006-01-02, the rule was removed from
	SuppressedOn []string `json:"suppressedOn,omitempty" bson:"suppressedOn,omitempty"`
}

// Validate checks the rule's internal consistency beyond struct tags
func (rule *UnavailabilityRule) Validate() error {
	if !rule.Span.IsStartBeforeEnd() || rule.Span.Duration() == 0 {
		return errors.Errorf("rule span %s has no positive duration", &rule.Span)
	}

	switch rule.Recurrence {
	case RecurrenceNone:
		if len(rule.Weekdays) > 0 {
			return errors.New("one-off rules cannot have weekdays")
		}
	case RecurrenceWeekly:
		if len(rule.Weekdays) == 0 {
			return errors.New("weekly rules need at least one weekday")
		}
		for _, day := range rule.Weekdays {
			if day < 0 || day > 6 {
				return errors.Errorf("weekday %d is out of range", day)
			}
		}
	case RecurrenceDaily:
		// daily rules ignore weekdays
	default:
		return errors.Errorf("unknown recurrence %s", rule.Recurrence)
	}

	return nil
}

// IsSuppressedOn reports whether the rule was removed from the given date
func (rule *UnavailabilityRule) IsSuppressedOn(dateKey string) bool {
	for _, suppressed := range rule.SuppressedOn {
		if suppressed == dateKey {
			return true
		}
	}
	return false
}

// AppliesOn materializes the rule onto the given day and reports whether it fires there.
// day must be a midnight timestamp in the user's location.
func (rule *UnavailabilityRule) AppliesOn(day time.Time, location *time.Location) (date.Timespan, bool) {
	if rule.IsSuppressedOn(day.Format("2006-01-02")) {
		return date.Timespan{}, false
	}

	switch rule.Recurrence {
	case RecurrenceNone:
		if !date.SameDay(rule.Span.Start, day, location) {
			return date.Timespan{}, false
		}
		return rule.Span.In(location), true
	case RecurrenceDaily:
		return rule.Span.OnDate(day, location), true
	case RecurrenceWeekly:
		for _, weekday := range rule.Weekdays {
			if int(day.Weekday()) == weekday {
				return rule.Span.OnDate(day, location), true
			}
		}
	}

	return date.Timespan{}, false
}
