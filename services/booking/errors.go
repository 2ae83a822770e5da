package booking

import "fmt"

// InvalidStateError signals a lifecycle transition from a state that does not
// allow it.
type InvalidStateError struct {
	BookingID string
	From      string
	Attempted string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("booking %s: cannot %s from status %q", e.BookingID, e.Attempted, e.From)
}

func NewInvalidStateError(bookingID, from, attempted string) error {
	return &InvalidStateError{BookingID: bookingID, From: from, Attempted: attempted}
}
