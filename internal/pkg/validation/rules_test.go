package validation

import (
	"testing"
	"time"
)

func TestStringValidation(t *testing.T) {
	tests := []struct {
		name string
		v    *StringValidation
		want bool
	}{
		{"required empty", NewStringValidation("  "), false},
		{"optional empty", NewStringValidation("").WithRequired(false), true},
		{"too short", NewStringValidation("a").WithMinLength(2), false},
		{"too long", NewStringValidation("abcdef").WithMaxLength(5), false},
		{"pattern ok", NewStringValidation("CSE").WithPattern(CompiledPatterns.BranchCode), true},
		{"pattern lower", NewStringValidation("cse").WithPattern(CompiledPatterns.BranchCode), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmailHelpers(t *testing.T) {
	email := NormalizeEmail("  Asha.Rao@Campus.EDU ")
	if email != "asha.rao@campus.edu" {
		t.Fatalf("NormalizeEmail = %q", email)
	}
	if !IsValidEmail(email) {
		t.Error("expected normalized email to be valid")
	}
	if IsValidEmail("not-an-email") {
		t.Error("expected invalid email to be rejected")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", d)
	}
	if _, err := ParseDate("10/01/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
