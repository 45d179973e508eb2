package task

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnreachable reports that a request never completed: the service could
// not be reached or the connection failed mid-flight.
var ErrUnreachable = errors.New("task service unreachable")

// RejectedError is a non-success response from the task service.
type RejectedError struct {
	Status    int
	Code      string // structured error code, when the service sends one
	Message   string
	RequestID string
}

func (e *RejectedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Code != "" {
		return fmt.Sprintf("task service: %d %s: %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("task service: %d: %s", e.Status, msg)
}

type correlationKey struct{}

// WithCorrelationID tags ctx so that every request issued with it can be
// traced back to one user action.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID returns the id set by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
