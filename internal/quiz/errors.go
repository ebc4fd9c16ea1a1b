package quiz

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrQuizNotFound is returned when a quiz id does not resolve.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrAttemptNotFound is returned when an attempt id does not resolve.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrNotOwner is returned when a student touches someone else's attempt.
	ErrNotOwner = errors.New("attempt belongs to another student")
	// ErrInvalidState is returned when an operation is not permitted by the
	// attempt's current status.
	ErrInvalidState = errors.New("attempt is not in progress")
	// ErrAlreadySubmitted is returned by Submit on a submitted attempt.
	// The attempt is left untouched.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrUnknownQuestion is returned when an answer references a question id
	// outside the quiz's question set.
	ErrUnknownQuestion = errors.New("question not in quiz")
	// ErrAttemptInProgress is returned when a start is requested while an
	// in-progress attempt already exists for the (quiz, student) pair.
	ErrAttemptInProgress = errors.New("attempt already in progress")
)

// DenialReason enumerates why the availability gate refused a start.
type DenialReason string

const (
	DeniedNotPublished        DenialReason = "not_published"
	DeniedNotYetAvailable     DenialReason = "not_yet_available"
	DeniedClosed              DenialReason = "closed"
	DeniedBadAccessCode       DenialReason = "bad_access_code"
	DeniedAttemptLimitReached DenialReason = "attempt_limit_reached"
)

// DenialError is an expected, user-facing refusal from the availability gate.
// It is not a fault: callers branch on Reason to render the right message.
type DenialError struct {
	Reason DenialReason
	At     *time.Time // the boundary date for NotYetAvailable / Closed
}

func (e *DenialError) Error() string {
	switch e.Reason {
	case DeniedNotYetAvailable:
		return fmt.Sprintf("quiz not yet available (opens %s)", e.At.Format(time.RFC3339))
	case DeniedClosed:
		return fmt.Sprintf("quiz closed (%s)", e.At.Format(time.RFC3339))
	default:
		return string(e.Reason)
	}
}

// AsDenial unwraps a DenialError from err, if any.
func AsDenial(err error) (*DenialError, bool) {
	var d *DenialError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
