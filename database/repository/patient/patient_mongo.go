package patientRepo

import (
	"context"
	"fmt"
	"time"

	"medibook/database"
	"medibook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PatientRepository resolves the contact endpoints notifications go to.
type PatientRepository interface {
	GetContact(userID string) (*models.PatientContact, error)
	SaveContact(contact *models.PatientContact) error
}

// MongoPatientRepo implements PatientRepository using MongoDB.
type MongoPatientRepo struct {
	coll *mongo.Collection
}

func NewMongoPatientRepo() PatientRepository {
	return &MongoPatientRepo{coll: database.Collection("patients")}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetContact fetches the contact record for one user.
func (r *MongoPatientRepo) GetContact(userID string) (*models.PatientContact, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contact models.PatientContact
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&contact); err != nil {
		return nil, fmt.Errorf("failed to fetch contact for user %s: %w", userID, err)
	}
	return &contact, nil
}

// SaveContact upserts the contact record.
func (r *MongoPatientRepo) SaveContact(contact *models.PatientContact) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	contact.UpdatedAt = time.Now()
	filter := bson.M{"user_id": contact.UserID}
	update := bson.M{"$set": contact}
	opts := options.Update().SetUpsert(true)

	if _, err := r.coll.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to save contact for user %s: %w", contact.UserID, err)
	}
	return nil
}
