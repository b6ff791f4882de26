package push

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionUnsupported means the device cannot receive pushes at all.
	ErrPermissionUnsupported = errors.New("push notifications are not supported on this device")
	// ErrSubscriptionFailed means a subscribe step failed; the user may retry.
	ErrSubscriptionFailed = errors.New("could not enable push notifications")
	// ErrNotGranted is returned when subscribing without a granted permission.
	ErrNotGranted = errors.New("push permission has not been granted")
	// ErrNoSession is returned when no user is signed in.
	ErrNoSession = errors.New("sign in to manage push notifications")
	// ErrSessionChanged is returned when the session ended mid-handshake.
	ErrSessionChanged = errors.New("session changed during push negotiation")
	// ErrNoAgent is returned by a Platform without a background delivery agent.
	ErrNoAgent = errors.New("background delivery agent unavailable")
)

// Step names a stage of the negotiation.
type Step string

const (
	StepCapability Step = "capability"
	StepPermission Step = "permission"
	StepAgent      Step = "agent"
	StepKey        Step = "application-key"
	StepSubscribe  Step = "subscribe"
	StepRegister   Step = "register"
)

// Error reports which step failed. Kind is ErrPermissionUnsupported or
// ErrSubscriptionFailed; Err is the underlying cause.
type Error struct {
	Step Step
	Kind error
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("push %s: %v: %v", e.Step, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Message is the text shown to the user.
func (e *Error) Message() string {
	return e.Kind.Error()
}
