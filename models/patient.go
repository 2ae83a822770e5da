package models

import "time"

// PatientContact holds the delivery endpoints for one user's channels.
type PatientContact struct {
	UserID    string    `bson:"user_id" json:"user_id"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	FCMToken  string    `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
