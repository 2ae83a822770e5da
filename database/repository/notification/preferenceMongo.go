// File: database/repository/notification/preferenceMongo.go
package notificationRepo

import (
	"errors"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPreferenceRepo implements PreferenceRepository using MongoDB.
type MongoPreferenceRepo struct {
	coll *mongo.Collection
}

// NewMongoPreferenceRepo creates a new instance of PreferenceRepository using MongoDB.
func NewMongoPreferenceRepo() PreferenceRepository {
	return &MongoPreferenceRepo{coll: database.Collection("notification_preferences")}
}

// Get retrieves the preference matrix for a user. A user without a stored
// matrix gets the default (everything on).
func (r *MongoPreferenceRepo) Get(userID string) (*models.NotificationPreference, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var pref models.NotificationPreference
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&pref)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultPreference(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch preferences for user %s: %w", userID, err)
	}
	return &pref, nil
}

// Save upserts the whole matrix in one write so the global-off cascade lands
// atomically.
func (r *MongoPreferenceRepo) Save(pref *models.NotificationPreference) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	pref.UpdatedAt = time.Now()
	filter := bson.M{"user_id": pref.UserID}
	update := bson.M{"$set": pref}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save preferences for user %s: %w", pref.UserID, err)
	}
	return nil
}
