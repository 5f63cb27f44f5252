package event

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTopic         = errors.New("invalid topic")
	ErrNilHandler           = errors.New("nil handler")
	ErrSubscriptionNotFound = errors.New("no such subscription")

	// ErrHandlerPanic matches every PanicError.
	ErrHandlerPanic = errors.New("handler panicked")
)

// HandlerError is one failed delivery. Publish joins them.
type HandlerError struct {
	SubscriptionID string
	Topic          string
	Err            error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("%s: subscriber %s: %v", e.Topic, e.SubscriptionID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// PanicError carries the value a handler panicked with.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

func (e *PanicError) Is(target error) bool { return target == ErrHandlerPanic }
