package planning

import (
	"testing"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
)

func TestUnavailabilityRule_Validate(t *testing.T) {
	cases := []struct {
		rule    UnavailabilityRule
		wantErr bool
	}{
		// one-off with a proper span
		{UnavailabilityRule{Name: "a", Span: clockSpan(9, 0, 10, 0)}, false},
		// inverted span
		{UnavailabilityRule{Name: "b", Span: clockSpan(10, 0, 9, 0)}, true},
		// zero length span
		{UnavailabilityRule{Name: "c", Span: clockSpan(9, 0, 9, 0)}, true},
		// daily ignores weekdays
		{UnavailabilityRule{Name: "d", Span: clockSpan(9, 0, 10, 0), Recurrence: RecurrenceDaily}, false},
		// weekly without weekdays
		{UnavailabilityRule{Name: "e", Span: clockSpan(9, 0, 10, 0), Recurrence: RecurrenceWeekly}, true},
		// weekly with an out of range weekday
		{UnavailabilityRule{Name: "f", Span: clockSpan(9, 0, 10, 0), Recurrence: RecurrenceWeekly, Weekdays: []int{7}}, true},
		// weekly with proper weekdays
		{UnavailabilityRule{Name: "g", Span: clockSpan(9, 0, 10, 0), Recurrence: RecurrenceWeekly, Weekdays: []int{0, 6}}, false},
		// one-off with weekdays
		{UnavailabilityRule{Name: "h", Span: clockSpan(9, 0, 10, 0), Weekdays: []int{1}}, true},
		// unknown recurrence
		{UnavailabilityRule{Name: "i", Span: clockSpan(9, 0, 10, 0), Recurrence: "monthly"}, true},
	}

	for i, tt := range cases {
		err := tt.rule.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("Case %d: Validate() = %v, wantErr %v", i, err, tt.wantErr)
		}
	}
}

func TestUnavailabilityRule_AppliesOn(t *testing.T) {
	location := time.UTC
	// 2022-01-10 is a Monday
	monday := time.Date(2022, 1, 10, 0, 0, 0, 0, location)
	tuesday := monday.AddDate(0, 0, 1)

	oneOff := UnavailabilityRule{
		Name: "dentist",
		Span: date.Timespan{
			Start: time.Date(2022, 1, 10, 15, 0, 0, 0, location),
			End:   time.Date(2022, 1, 10, 16, 0, 0, 0, location),
		},
	}
	daily := UnavailabilityRule{Name: "lunch", Span: clockSpan(12, 0, 13, 0), Recurrence: RecurrenceDaily}
	weekly := UnavailabilityRule{Name: "standup", Span: clockSpan(9, 0, 9, 30), Recurrence: RecurrenceWeekly, Weekdays: []int{1}}

	cases := []struct {
		rule    UnavailabilityRule
		day     time.Time
		applies bool
	}{
		{oneOff, monday, true},
		{oneOff, tuesday, false},
		{daily, monday, true},
		{daily, tuesday, true},
		{weekly, monday, true},
		{weekly, tuesday, false},
	}

	for i, tt := range cases {
		_, applies := tt.rule.AppliesOn(tt.day, location)
		if applies != tt.applies {
			t.Errorf("Case %d: AppliesOn(%s) = %v, expected %v", i, tt.day.Format("2006-01-02"), applies, tt.applies)
		}
	}

	span, applies := daily.AppliesOn(tuesday, location)
	if !applies {
		t.Fatalf("daily rule does not apply")
	}
	want := date.Timespan{
		Start: time.Date(2022, 1, 11, 12, 0, 0, 0, location),
		End:   time.Date(2022, 1, 11, 13, 0, 0, 0, location),
	}
	if span != want {
		t.Errorf("daily rule materialized to %s, expected %s", &span, &want)
	}
}
