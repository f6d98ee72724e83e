package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fleet/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "BadRequestFromString", err: failure.BadRequestFromString("bad window"), code: http.StatusBadRequest},
		{name: "Unauthorized", err: failure.Unauthorized("missing token"), code: http.StatusUnauthorized},
		{name: "Forbidden", err: failure.Forbidden("customers cannot return bookings"), code: http.StatusForbidden},
		{name: "NotFound", err: failure.NotFound("vehicle not found"), code: http.StatusNotFound},
		{name: "Conflict", err: failure.Conflict("vehicle is not available"), code: http.StatusConflict},
		{name: "InternalError", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestGetCode_WrappedFailure(t *testing.T) {
	wrapped := fmt.Errorf("creating booking: %w", failure.Conflict("vehicle is not available"))

	if got := failure.GetCode(wrapped); got != http.StatusConflict {
		t.Errorf("expected code %d, got %d", http.StatusConflict, got)
	}

	if !failure.IsCode(wrapped, http.StatusConflict) {
		t.Error("expected IsCode to match wrapped failure")
	}
}

func TestGetCode_PlainError(t *testing.T) {
	if got := failure.GetCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected code %d, got %d", http.StatusInternalServerError, got)
	}
}
