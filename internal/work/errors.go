package work

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTrigger marks a trigger outside the closed vocabulary.
// It is returned before any state lookup happens.
var ErrUnknownTrigger = errors.New("unknown trigger")

// ErrInvalidTransition is the sentinel for transition rejections.
// The concrete error is always an *InvalidTransitionError; match the
// kind with errors.Is and extract details with errors.As.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrNoPreviousRole signals a corrupt blocked item: resume was
// requested but no previous role was captured at block time.
var ErrNoPreviousRole = errors.New("blocked item has no previous role to resume")

// ErrVersionConflict marks a write that targeted a stale version.
// The caller must re-read and retry with the fresh item.
var ErrVersionConflict = errors.New("version conflict")

// InvalidTransitionError reports a trigger that is not legal from the
// item's current role, along with the triggers that would have been.
type InvalidTransitionError struct {
	Role    Role
	Trigger Trigger
	Legal   []Trigger
}

func (e *InvalidTransitionError) Error() string {
	legal := make([]string, len(e.Legal))
	for i, t := range e.Legal {
		legal[i] = string(t)
	}
	return fmt.Sprintf("invalid transition: trigger %q is not legal from role %q (legal: %s)",
		e.Trigger, e.Role, strings.Join(legal, ", "))
}

// Is makes errors.Is(err, ErrInvalidTransition) match.
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
