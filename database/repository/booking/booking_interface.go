package bookingRepo

import "medibook/models"

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	Update(booking *models.Booking) error
	UpdateStatus(id string, status models.BookingStatus, reason string) error
	UpdatePayment(id string, payment *models.Payment) error
	ListByPatient(patientID string) ([]models.Booking, error)
}
