package payment

import "fmt"

// RetryNotReadyError rejects a submit issued while the retry countdown is
// still running.
type RetryNotReadyError struct {
	BookingID string
	Remaining int // seconds until the next submit is accepted
}

func (e *RetryNotReadyError) Error() string {
	return fmt.Sprintf("booking %s: retry not ready, %ds remaining", e.BookingID, e.Remaining)
}

// RetriesExhaustedError rejects a submit after the attempt chain hit its cap.
type RetriesExhaustedError struct {
	BookingID string
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("booking %s: payment retries exhausted", e.BookingID)
}

// StageError rejects an operation issued from the wrong stage. A second
// submit while one is processing lands here; it is rejected, never queued.
type StageError struct {
	BookingID string
	Stage     Stage
	Op        string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("booking %s: cannot %s in stage %q", e.BookingID, e.Op, e.Stage)
}
