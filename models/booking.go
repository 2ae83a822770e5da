package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingDeclined  BookingStatus = "declined"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether a booking in this status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingDeclined || s == BookingCompleted || s == BookingCancelled
}

// Booking represents a medical-resource booking record.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`                               // Unique booking identifier (UUID)
	PatientID          string        `bson:"patient_id" json:"patient_id"`               // User who owns the booking
	ResourceID         string        `bson:"resource_id" json:"resource_id"`             // Booked resource (room, equipment, specialist)
	ResourceName       string        `bson:"resource_name" json:"resource_name"`         // Denormalized for notification bodies
	ScheduledAt        time.Time     `bson:"scheduled_at" json:"scheduled_at"`           // Start of the booked slot
	Status             BookingStatus `bson:"status" json:"status"`
	Payment            *Payment      `bson:"payment,omitempty" json:"payment,omitempty"` // Owned, zero or one
	CancellationReason string        `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `bson:"updated_at" json:"updated_at"`
}
