package quiz

import "time"

// CanAttempt decides whether a quiz may be started right now. It is a pure
// function of its inputs; the first failing check wins, in this order:
// published, available-from, available-until, access code, attempt limit.
//
// priorAttempts counts the student's submitted attempts at this quiz.
func CanAttempt(q Quiz, now time.Time, priorAttempts int, suppliedAccessCode string) error {
	if !q.Published {
		return &DenialError{Reason: DeniedNotPublished}
	}
	if q.AvailableAt != nil && now.Before(*q.AvailableAt) {
		return &DenialError{Reason: DeniedNotYetAvailable, At: q.AvailableAt}
	}
	if q.UntilAt != nil && now.After(*q.UntilAt) {
		return &DenialError{Reason: DeniedClosed, At: q.UntilAt}
	}
	if q.AccessCode != "" && suppliedAccessCode != q.AccessCode {
		return &DenialError{Reason: DeniedBadAccessCode}
	}
	if !q.MultipleAttempts {
		if priorAttempts > 0 {
			return &DenialError{Reason: DeniedAttemptLimitReached}
		}
		return nil
	}
	if priorAttempts >= q.MaxAttempts {
		return &DenialError{Reason: DeniedAttemptLimitReached}
	}
	return nil
}
