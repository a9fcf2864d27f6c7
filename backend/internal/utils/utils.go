package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/clientspot/clientspot/shared/errors"
)

const (
	PasswordMinLen    = 7
	PasswordMaxLen    = 15
	PasswordSpecials  = "!@&?%*"
	NameMaxLen        = 100
	CompanyNameMaxLen = 200
)

// Password policy rule names, reported in PolicyViolation.Rule.
const (
	RuleLength    = "length"
	RuleUppercase = "uppercase"
	RuleLowercase = "lowercase"
	RuleDigit     = "digit"
	RuleSpecial   = "special"
)

// PolicyViolation names the first password rule that failed.
type PolicyViolation struct {
	Rule    string
	Message string
}

func (v *PolicyViolation) Error() string {
	return v.Message
}

// AsError tags the violation for the HTTP layer.
func (v *PolicyViolation) AsError() error {
	return errors.Validation(v.Message)
}

type PasswordValidator struct{}

// Validate checks rules in a fixed order and returns the first violation, or nil.
func (PasswordValidator) Validate(password string) *PolicyViolation {
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		return &PolicyViolation{RuleLength, "Password must be between 7 and 15 characters long"}
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		return &PolicyViolation{RuleUppercase, "Password must contain at least one uppercase letter"}
	}
	if !strings.ContainsFunc(password, isASCIILower) {
		return &PolicyViolation{RuleLowercase, "Password must contain at least one lowercase letter"}
	}
	if !strings.ContainsFunc(password, isASCIIDigit) {
		return &PolicyViolation{RuleDigit, "Password must contain at least one digit"}
	}
	if !strings.ContainsAny(password, PasswordSpecials) {
		return &PolicyViolation{RuleSpecial, "Password must contain at least one special character (" + PasswordSpecials + ")"}
	}
	return nil
}

// Character classes are ASCII only; accented letters and non-Latin digits do not count.
func isASCIIUpper(r rune) bool { return 'A' <= r && r <= 'Z' }
func isASCIILower(r rune) bool { return 'a' <= r && r <= 'z' }
func isASCIIDigit(r rune) bool { return '0' <= r && r <= '9' }

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type EmailValidator struct{}

// NormalizeEmail trims surrounding whitespace. Case is preserved and compared exactly.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (EmailValidator) Validate(email string) error {
	if !emailShape.MatchString(email) {
		return errors.Validation("Invalid email address")
	}
	return nil
}

// NameValidator checks first and last names.
type NameValidator struct{}

func (NameValidator) Validate(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Validation(field + " cannot be empty")
	}
	if utf8.RuneCountInString(name) > NameMaxLen {
		return errors.Validation(field + " is too long")
	}
	return nil
}

var contactNumber = regexp.MustCompile(`^\+[0-9]{1,3}-?[0-9]{6,14}$`)

type CompanyValidator struct{}

func (CompanyValidator) Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Validation("Company name cannot be empty")
	}
	if utf8.RuneCountInString(name) > CompanyNameMaxLen {
		return errors.Validation("Company name is too long")
	}
	return nil
}

// ContactNumber expects an international number such as +27-821234567.
func (CompanyValidator) ContactNumber(number string) error {
	if !contactNumber.MatchString(number) {
		return errors.Validation("Contact number must be in international format, e.g. +27-821234567")
	}
	return nil
}
