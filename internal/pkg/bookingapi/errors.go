package bookingapi

import (
	"errors"
	"fmt"
)

var ErrExcursionNotFound = errors.New("excursion not found")

// RemoteRejection is a failure the Booking API answered with after a
// submission, including the race where another client took the last tickets
// after local validation passed. The server message is surfaced verbatim and
// the booking flow returns to selecting.
type RemoteRejection struct {
	StatusCode int
	Message    string
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("booking rejected by server (status %d): %s", e.StatusCode, e.Message)
}
