package planning

import (
	"context"
	"time"

	"github.com/dayplan-app/dayplan-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RuleRepositoryInterface is an interface for an unavailability rule repository
type RuleRepositoryInterface interface {
	Add(ctx context.Context, rule *UnavailabilityRule) error
	FindByID(ctx context.Context, ruleID string, userID string) (*UnavailabilityRule, error)
	FindAll(ctx context.Context, userID string) ([]*UnavailabilityRule, error)
	Update(ctx context.Context, rule *UnavailabilityRule) error
	Suppress(ctx context.Context, ruleID string, userID string, dateKey string) error
	Delete(ctx context.Context, ruleID string, userID string) error
}

// RuleRepository is an unavailability rule repository backed by mongo
type RuleRepository struct {
	DB     *mongo.Collection
	Logger logger.Interface
}

// Add adds a rule
func (r *RuleRepository) Add(ctx context.Context, rule *UnavailabilityRule) error {
	rule.CreatedAt = time.Now()
	rule.LastModifiedAt = time.Now()

	result, err := r.DB.InsertOne(ctx, rule)
	if err != nil {
		return err
	}

	rule.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a specific rule of a user
func (r *RuleRepository) FindByID(ctx context.Context, ruleID string, userID string) (*UnavailabilityRule, error) {
	ruleObjectID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return nil, err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	rule := UnavailabilityRule{}
	result := r.DB.FindOne(ctx, bson.M{"_id": ruleObjectID, "userId": userObjectID})

	if result.Err() != nil {
		return nil, result.Err()
	}

	err = result.Decode(&rule)
	if err != nil {
		return nil, err
	}

	return &rule, nil
}

// FindAll finds all rules of a user
func (r *RuleRepository) FindAll(ctx context.Context, userID string) ([]*UnavailabilityRule, error) {
	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := r.DB.Find(ctx, bson.M{"userId": userObjectID})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			r.Logger.Error("Problem closing rule cursor", err)
		}
	}()

	var rules []*UnavailabilityRule
	err = cursor.All(ctx, &rules)
	if err != nil {
		return nil, err
	}

	return rules, nil
}

// Update updates a rule
func (r *RuleRepository) Update(ctx context.Context, rule *UnavailabilityRule) error {
	rule.LastModifiedAt = time.Now()

	result, err := r.DB.UpdateOne(ctx,
		bson.M{"_id": rule.ID, "userId": rule.UserID},
		bson.M{"$set": rule})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// Suppress hides a recurring rule on a single date without touching other dates
func (r *RuleRepository) Suppress(ctx context.Context, ruleID string, userID string, dateKey string) error {
	ruleObjectID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	result, err := r.DB.UpdateOne(ctx,
		bson.M{"_id": ruleObjectID, "userId": userObjectID},
		bson.M{
			"$addToSet": bson.M{"suppressedOn": dateKey},
			"$set":      bson.M{"lastModifiedAt": time.Now()},
		})
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// Delete removes a rule permanently
func (r *RuleRepository) Delete(ctx context.Context, ruleID string, userID string) error {
	ruleObjectID, err := primitive.ObjectIDFromHex(ruleID)
	if err != nil {
		return err
	}

	userObjectID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	result, err := r.DB.DeleteOne(ctx, bson.M{"_id": ruleObjectID, "userId": userObjectID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
