package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCustomErrorUnwrap(t *testing.T) {
	err := NewInvalidTransitionError("leave is not awaiting parent approval")
	wrapped := fmt.Errorf("approve leave 7: %w", err)

	if !errors.Is(wrapped, ErrInvalidTransition) {
		t.Fatal("expected wrapped custom error to match ErrInvalidTransition")
	}
	if got := UserMessage(wrapped, "fallback"); got != "leave is not awaiting parent approval" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestUserMessageFallback(t *testing.T) {
	err := fmt.Errorf("%w: email", ErrValidationFailed)
	if got := UserMessage(err, "Validation failed"); got != "Validation failed" {
		t.Errorf("UserMessage = %q, want fallback", got)
	}
}

func TestIsAny(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrLeaveNotFound)
	if !Is(err, ErrResourceNotFound, ErrUserNotFound, ErrLeaveNotFound) {
		t.Error("expected Is to match one of the listed errors")
	}
	if Is(err, ErrResourceNotFound) {
		t.Error("did not expect a match against ErrResourceNotFound alone")
	}
}

func TestCustomErrorMessage(t *testing.T) {
	e := NewCustomError(ErrConflict, "")
	if e.Error() != ErrConflict.Error() {
		t.Errorf("Error() = %q, want underlying message", e.Error())
	}
	e.WithCode("RES_004").WithDetails(map[string]interface{}{"id": 1})
	if e.Code != "RES_004" || e.Details["id"] != 1 {
		t.Error("builder methods did not set fields")
	}
}
