package handlers

import (
	"context"
	"net/http"
	"strings"

	huma "github.com/danielgtaylor/huma/v2"
)

// ErrorModel is the body of every error response: {"error": "..."}.
type ErrorModel struct {
	status  int
	Message string `json:"error" doc:"What went wrong"`
}

func (e *ErrorModel) Error() string { return e.Message }

func (e *ErrorModel) GetStatus() int { return e.status }

func init() {
	huma.NewError = NewError
}

// NewError replaces huma's problem+json errors. Request validation failures
// are reported as 400 with their details; server errors never carry details.
func NewError(status int, msg string, errs ...error) huma.StatusError {
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	if status < http.StatusInternalServerError {
		details := make([]string, 0, len(errs))
		for _, err := range errs {
			if err != nil {
				details = append(details, err.Error())
			}
		}
		if len(details) > 0 {
			msg = msg + ": " + strings.Join(details, "; ")
		}
	}
	return &ErrorModel{status: status, Message: msg}
}

// modelFailure logs why the model call failed and returns the generic 500
// shown to clients.
func (r *Relay) modelFailure(ctx context.Context, route string, err error) error {
	r.logger().ErrorContext(ctx, "relay.model_failed", "route", route, "error", err)
	return huma.Error500InternalServerError("AI service failed")
}
