package validation

import (
	"regexp"
	"strings"
	"time"
)

// Validation rule patterns
var (
	// EmailPattern is applied to lower-cased addresses
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// BranchCodePattern is an uppercase alphanumeric code, e.g. CSE or ECE2
	BranchCodePattern = `^[A-Z0-9]{2,10}$`

	// RollNumberPattern allows letters, digits and dashes
	RollNumberPattern = `^[A-Za-z0-9\-]{3,20}$`

	// PasswordMinLength is the minimum password length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100

	// ReasonMaxLength caps the free-text leave reason
	ReasonMaxLength = 500
)

// DateLayout is the wire format for calendar dates (start/end dates)
const DateLayout = "2006-01-02"

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	BranchCode *regexp.Regexp
	RollNumber *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	BranchCode: regexp.MustCompile(BranchCodePattern),
	RollNumber: regexp.MustCompile(RollNumberPattern),
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail checks an already-normalized address
func IsValidEmail(email string) bool {
	return CompiledPatterns.Email.MatchString(email)
}

// IsValidName checks trimmed length bounds
func IsValidName(name string) bool {
	n := len(strings.TrimSpace(name))
	return n >= NameMinLength && n <= NameMaxLength
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

// StringValidation is a small fluent checker for free-text fields
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	value := strings.TrimSpace(v.Value)
	if value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(value) {
		return false
	}
	return true
}
