package planning

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockTaskRepository keeps tasks in memory for tests
type MockTaskRepository struct {
	Tasks []*Task
}

// Add adds a task
func (r *MockTaskRepository) Add(_ context.Context, task *Task) error {
	task.ID = primitive.NewObjectID()
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()
	r.Tasks = append(r.Tasks, task)
	return nil
}

// FindByID finds a specific task of a user
func (r *MockTaskRepository) FindByID(_ context.Context, taskID string, userID string) (*Task, error) {
	for _, task := range r.Tasks {
		if task.ID.Hex() == taskID && task.UserID.Hex() == userID && !task.Deleted {
			return task, nil
		}
	}
	return nil, errors.Errorf("could not find task %s", taskID)
}

// FindAll finds all undeleted tasks of a user
func (r *MockTaskRepository) FindAll(_ context.Context, userID string) ([]Task, error) {
	var tasks []Task
	for _, task := range r.Tasks {
		if task.UserID.Hex() == userID && !task.Deleted {
			tasks = append(tasks, *task)
		}
	}
	return tasks, nil
}

// Update updates a task
func (r *MockTaskRepository) Update(_ context.Context, task *Task) error {
	for i, existing := range r.Tasks {
		if existing.ID == task.ID {
			task.LastModifiedAt = time.Now()
			r.Tasks[i] = task
			return nil
		}
	}
	return errors.Errorf("could not find task %s", task.ID.Hex())
}

// SetScheduledStart annotates a task with its placed start time
func (r *MockTaskRepository) SetScheduledStart(_ context.Context, taskID string, userID string, start *time.Time) error {
	for _, task := range r.Tasks {
		if task.ID.Hex() == taskID && task.UserID.Hex() == userID {
			task.ScheduledStart = start
			return nil
		}
	}
	return errors.Errorf("could not find task %s", taskID)
}

// Delete marks a task deleted
func (r *MockTaskRepository) Delete(_ context.Context, taskID string, userID string) error {
	for _, task := range r.Tasks {
		if task.ID.Hex() == taskID && task.UserID.Hex() == userID {
			task.Deleted = true
			return nil
		}
	}
	return errors.Errorf("could not find task %s", taskID)
}

// MockRuleRepository keeps unavailability rules in memory for tests
type MockRuleRepository struct {
	Rules []*UnavailabilityRule
}

// Add adds a rule
func (r *MockRuleRepository) Add(_ context.Context, rule *UnavailabilityRule) error {
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = time.Now()
	rule.LastModifiedAt = time.Now()
	r.Rules = append(r.Rules, rule)
	return nil
}

// FindByID finds a specific rule of a user
func (r *MockRuleRepository) FindByID(_ context.Context, ruleID string, userID string) (*UnavailabilityRule, error) {
	for _, rule := range r.Rules {
		if rule.ID.Hex() == ruleID && rule.UserID.Hex() == userID {
			return rule, nil
		}
	}
	return nil, errors.Errorf("could not find rule %s", ruleID)
}

// FindAll finds all rules of a user
func (r *MockRuleRepository) FindAll(_ context.Context, userID string) ([]*UnavailabilityRule, error) {
	var rules []*UnavailabilityRule
	for _, rule := range r.Rules {
		if rule.UserID.Hex() == userID {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// Update updates a rule
func (r *MockRuleRepository) Update(_ context.Context, rule *UnavailabilityRule) error {
	for i, existing := range r.Rules {
		if existing.ID == rule.ID {
			rule.LastModifiedAt = time.Now()
			r.Rules[i] = rule
			return nil
		}
	}
	return errors.Errorf("could not find rule %s", rule.ID.Hex())
}

// Suppress hides a recurring rule on a single date
func (r *MockRuleRepository) Suppress(_ context.Context, ruleID string, userID string, dateKey string) error {
	for _, rule := range r.Rules {
		if rule.ID.Hex() == ruleID && rule.UserID.Hex() == userID {
			if !rule.IsSuppressedOn(dateKey) {
				rule.SuppressedOn = append(rule.SuppressedOn, dateKey)
			}
			return nil
		}
	}
	return errors.Errorf("could not find rule %s", ruleID)
}

// Delete removes a rule permanently
func (r *MockRuleRepository) Delete(_ context.Context, ruleID string, userID string) error {
	for i, rule := range r.Rules {
		if rule.ID.Hex() == ruleID && rule.UserID.Hex() == userID {
			r.Rules = append(r.Rules[:i], r.Rules[i+1:]...)
			return nil
		}
	}
	return errors.Errorf("could not find rule %s", ruleID)
}
