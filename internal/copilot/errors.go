package copilot

import "github.com/dharsanguruparan/CareerCopilot/internal/session"

// ValidationError is a submission rejected before any request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ActionError is a failed submission as shown to the user. Err keeps the
// underlying client, encoder or export error.
type ActionError struct {
	Action  session.Action
	Message string
	Err     error
}

func (e *ActionError) Error() string { return e.Message }

func (e *ActionError) Unwrap() error { return e.Err }

func failed(action session.Action, prefix string, err error) *ActionError {
	return &ActionError{Action: action, Message: prefix + err.Error(), Err: err}
}
