// Package validator provides input validation and normalization for
// contact form submissions.
package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/arthurlanz/portfolio-contact-backend/internal/models"
)

// Field length limits
const (
	NameMinLength    = 3
	NameMaxLength    = 200
	SubjectMinLength = 5
	SubjectMaxLength = 300
	MessageMinLength = 20
	MessageMaxLength = 5000
)

// Regex patterns for validation
var (
	// Name: letters (ASCII plus accented Latin-1 range) and whitespace only
	nameRegex = regexp.MustCompile(`^[a-zA-ZÀ-ÿ\s]+$`)

	// Email: simple address pattern, TLD must be at least 2 letters
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ContactInput holds the raw submitted fields. A nil pointer means the
// field was absent from the request entirely.
type ContactInput struct {
	Name    *string `json:"name" form:"name"`
	Email   *string `json:"email" form:"email"`
	Subject *string `json:"subject" form:"subject"`
	Message *string `json:"message" form:"message"`
}

// FieldErrors maps a field name to its list of validation messages
type FieldErrors map[string][]string

// Add appends a message to a field's error list
func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// ValidateContact checks every field and returns either a normalized
// ContactMessage or the full set of violations. All validators run
// unconditionally so the caller can report every problem at once.
//
// Minimum lengths are checked against the trimmed value while maximum
// lengths are checked against the raw value, so surrounding whitespace
// counts toward the maximum. This matches the documented behavior of the
// form and must not be collapsed into a single rule.
func ValidateContact(in ContactInput) (*models.ContactMessage, FieldErrors) {
	errs := make(FieldErrors)

	name := validateName(in.Name, errs)
	email := validateEmail(in.Email, errs)
	subject := validateSubject(in.Subject, errs)
	message := validateMessage(in.Message, errs)

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: subject,
		Message: message,
	}, nil
}

func validateName(raw *string, errs FieldErrors) string {
	if raw == nil {
		errs.Add("name", "name is required")
		return ""
	}

	trimmed := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(trimmed) < NameMinLength {
		errs.Add("name", "name must be at least 3 characters")
	}
	if utf8.RuneCountInString(*raw) > NameMaxLength {
		errs.Add("name", "name must be at most 200 characters")
	}
	if trimmed != "" && !nameRegex.MatchString(trimmed) {
		errs.Add("name", "name must contain only letters and spaces")
	}

	return trimmed
}

func validateEmail(raw *string, errs FieldErrors) string {
	if raw == nil {
		errs.Add("email", "email is required")
		return ""
	}

	trimmed := strings.TrimSpace(*raw)
	if !emailRegex.MatchString(trimmed) {
		errs.Add("email", "email is not a valid address")
	}

	return strings.ToLower(trimmed)
}

func validateSubject(raw *string, errs FieldErrors) string {
	if raw == nil {
		errs.Add("subject", "subject is required")
		return ""
	}

	trimmed := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(trimmed) < SubjectMinLength {
		errs.Add("subject", "subject must be at least 5 characters")
	}
	if utf8.RuneCountInString(*raw) > SubjectMaxLength {
		errs.Add("subject", "subject must be at most 300 characters")
	}

	return trimmed
}

func validateMessage(raw *string, errs FieldErrors) string {
	if raw == nil {
		errs.Add("message", "message is required")
		return ""
	}

	trimmed := strings.TrimSpace(*raw)
	if utf8.RuneCountInString(trimmed) < MessageMinLength {
		errs.Add("message", "message must be at least 20 characters")
	}
	if utf8.RuneCountInString(*raw) > MessageMaxLength {
		errs.Add("message", "message must be at most 5000 characters")
	}

	return trimmed
}
