package users

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockUserRepository is a user repository for testing
type MockUserRepository struct {
	Users []*User
}

// Add adds a user
func (m *MockUserRepository) Add(_ context.Context, user *User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.LastModifiedAt = time.Now()
	m.Users = append(m.Users, user)
	return nil
}

// FindByID finds a user by ID
func (m *MockUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	for _, user := range m.Users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}

	return nil, errors.Errorf("could not find user %s", id)
}

// FindByEmail finds a user by email
func (m *MockUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, errors.Errorf("could not find user with email %s", email)
}

// Update updates a user
func (m *MockUserRepository) Update(_ context.Context, user *User) error {
	for i, u := range m.Users {
		if u.ID == user.ID {
			m.Users[i] = user
			return nil
		}
	}

	return errors.Errorf("could not find user %s", user.ID.Hex())
}

// Remove removes a user
func (m *MockUserRepository) Remove(_ context.Context, id string) error {
	for i, u := range m.Users {
		if u.ID.Hex() == id {
			m.Users = append(m.Users[:i], m.Users[i+1:]...)
			return nil
		}
	}

	return errors.Errorf("could not find user %s", id)
}
