package auth

import (
	"errors"
	"testing"

	"github.com/campusleave/leavedesk/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPasswordWithCost("secret123", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if hash == "secret123" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("wrong password accepted")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"secret123", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.ok != (err == nil) {
			t.Errorf("ValidatePassword(%q) = %v", tt.password, err)
		}
		if err != nil && !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("error %v should be a validation error", err)
		}
	}
}
