package planning

import (
	"context"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TaskRepositoryInterface is an interface for a task repository
type TaskRepositoryInterface interface {
	Add(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, taskID string, userID string) (*Task, error)
	FindAll(ctx context.Context, userID string) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	SetScheduledStart(ctx context.Context, taskID string, userID string, start *time.Time) error
	Delete(ctx context.Context, taskID string, userID string) error
}

// TaskRepository is a task repository backed by mongo
type TaskRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a task
func (r *TaskRepository) Add(ctx context.Context, task *Task) error {
	task.CreatedAt = time.Now()
	task.LastModifiedAt = time.Now()

	result, err := r.DB.InsertOne(ctx, task)
	if err != nil {
		return err
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a specific task of a user
func (r *TaskRepository) FindByID(ctx context.Context, taskID string, userID string) (*Task, error) {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	task := Task{}
	result := r.DB.FindOne(ctx, bson.M{"_id": taskObjectID, "userId": userObjectID, "deleted": false})

	if result.Err() != nil {
		return nil, result.Err()
	}

	err = result.Decode(&task)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// FindAll finds all undeleted tasks of a user
func (r *TaskRepository) FindAll(ctx context.Context, userID string) ([]Task, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.DB.Find(ctx, bson.M{"userId": userObjectID, "deleted": false})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			r.Logger.Error("Problem closing task cursor", err)
		}
	}()

	var tasks []Task
	err = cursor.All(ctx, &tasks)
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *TaskRepository) Update(ctx context.Context, task *Task) error {
	task.LastModifiedAt = time.Now()

	result, err := r.DB.UpdateOne(ctx,
		bson.M{"_id": task.ID, "userId": task.UserID, "deleted": false},
		bson.M{"$set": task})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// SetScheduledStart annotates a task with the start time the engine placed it at
func (r *TaskRepository) SetScheduledStart(ctx context.Context, taskID string, userID string, start *time.Time) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"scheduledStart": start, "lastModifiedAt": time.Now()}}
	if start == nil {
		update = bson.M{
			"$unset": bson.M{"scheduledStart": ""},
			"$set":   bson.M{"lastModifiedAt": time.Now()},
		}
	}

	_, err = r.DB.UpdateOne(ctx, bson.M{"_id": taskObjectID, "userId": userObjectID, "deleted": false}, update)
	return err
}

// Delete marks a task deleted
func (r *TaskRepository) Delete(ctx context.Context, taskID string, userID string) error {
	taskObjectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	result, err := r.DB.UpdateOne(ctx,
		bson.M{"_id": taskObjectID, "userId": userObjectID},
		bson.M{"$set": bson.M{"deleted": true, "lastModifiedAt": time.Now()}})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
