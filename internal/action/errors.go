package action

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrActionNotFound = errors.New("action not found")
	ErrRejected       = errors.New("action rejected execution")
	ErrInvalidCall    = errors.New("invalid action call")
	ErrDuplicate      = errors.New("action already registered")
)

// ActionError ties a failure to the action that produced it.
type ActionError struct {
	ActionName string
	Err        error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %q: %v", e.ActionName, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Body converts the error to its wire form.
func (e *ActionError) Body() ErrorBody {
	msg := e.Err.Error()
	if errors.Is(e.Err, ErrActionNotFound) {
		msg = fmt.Sprintf("No registered action found for name '%s'.", e.ActionName)
	}
	return ErrorBody{Error: msg, ActionName: e.ActionName}
}

// Reject returns an error an action can use to refuse a call.
func Reject(reason string) error {
	return fmt.Errorf("%w: %s", ErrRejected, reason)
}
