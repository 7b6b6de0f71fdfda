package llm

import (
	"errors"
	"fmt"
)

// ErrModelService matches every failure of the remote completion call.
var ErrModelService = errors.New("model service failed")

// ServiceError describes why a completion call failed. Status is the HTTP
// status of the response, or 0 when no response was received.
type ServiceError struct {
	Reason string
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	msg := "model service: " + e.Reason
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrModelService}
	}
	return []error{ErrModelService, e.Err}
}
