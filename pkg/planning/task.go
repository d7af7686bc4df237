package planning

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Priority is the user assigned importance of a task
type Priority string

// The priorities a task can have
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Category groups tasks by the kind of activity they represent
type Category string

// The categories a task can belong to
const (
	CategoryWork    Category = "work"
	CategoryStudy   Category = "study"
	CategoryLeisure Category = "leisure"
)

// Task is a unit of work the engine places into the day
type Task struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" validate:"required"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt"`
	Deleted        bool               `json:"-" bson:"deleted"`

	Name        string        `json:"name" bson:"name" validate:"required"`
	Description string        `json:"description" bson:"description"`
	Duration    time.Duration `json:"duration" bson:"duration" validate:"required,min=300000000000"`
	Deadline    time.Time     `json:"deadline" bson:"deadline" validate:"required"`
	Priority    Priority      `json:"priority" bson:"priority" validate:"required,oneof=high medium low"`
	Category    Category      `json:"category" bson:"category" validate:"required,oneof=work study leisure"`
	Done        bool          `json:"done" bson:"done"`

	// ScheduledStart is set by the engine when the task was placed into a plan
	ScheduledStart *time.Time `json:"scheduledStart,omitempty" bson:"scheduledStart,omitempty"`
}

// TaskUpdate is the set of fields a client may change on a task
type TaskUpdate struct {
	Name        string        `json:"name" bson:"name" validate:"required"`
	Description string        `json:"description" bson:"description"`
	Duration    time.Duration `json:"duration" bson:"duration" validate:"required,min=300000000000"`
	Deadline    time.Time     `json:"deadline" bson:"deadline" validate:"required"`
	Priority    Priority      `json:"priority" bson:"priority" validate:"required,oneof=high medium low"`
	Category    Category      `json:"category" bson:"category" validate:"required,oneof=work study leisure"`
	Done        bool          `json:"done" bson:"done"`
}
