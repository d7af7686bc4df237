package users

import (
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/date"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the model for a user
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Firstname      string             `json:"firstname" validate:"required"`
	Lastname       string             `json:"lastname" validate:"required"`
	Password       string             `json:"-" bson:"password" validate:"required"`
	Email          string             `json:"email" validate:"required,email"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`

	Settings Settings `json:"settings" bson:"settings"`
}

// UserLogin is the model for a login request
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" bson:"password" validate:"required"`
}

// Settings hold user specific preferences
type Settings struct {
	Scheduling SchedulingSettings `json:"scheduling" bson:"scheduling"`
}

// SchedulingSettings bound how a user's day gets planned. DayWindow is a
// clock template (times on the zero date) that gets materialized onto the
// planned date.
type SchedulingSettings struct {
	TimeZone  string        `json:"timeZone" bson:"timeZone"`
	DayWindow date.Timespan `json:"dayWindow" bson:"dayWindow"`
	SlotWidth time.Duration `json:"slotWidth" bson:"slotWidth"`
}
