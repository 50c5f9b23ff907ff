package application

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Field rules for the two front doors. Both doors share the same post rules;
// password minimums differ per entry point and are passed in by the caller.
const (
	titleMinLen   = 3
	contentMinLen = 3
)

var fieldValidator = validator.New()

type violations struct {
	list []Violation
}

func (v *violations) add(field, message string) {
	v.list = append(v.list, Violation{Field: field, Message: message})
}

func (v *violations) err() error {
	if len(v.list) == 0 {
		return nil
	}
	return &ValidationError{Violations: v.list}
}

// ValidatePost checks title/content and, when requireImage is set, the image
// path. All violations are collected before failing.
func ValidatePost(title, content, imageURL string, requireImage bool) error {
	var v violations
	if utf8.RuneCountInString(strings.TrimSpace(title)) < titleMinLen {
		v.add("title", "must be at least 3 characters long")
	}
	if utf8.RuneCountInString(strings.TrimSpace(content)) < contentMinLen {
		v.add("content", "must be at least 3 characters long")
	}
	if requireImage && strings.TrimSpace(imageURL) == "" {
		v.add("imageUrl", "is required")
	}
	return v.err()
}

// ValidateRegistration checks a new account's fields. passwordMin differs
// between the REST register endpoint and the GraphQL createUser mutation.
func ValidateRegistration(name, email, password string, passwordMin int) error {
	var v violations
	if strings.TrimSpace(name) == "" {
		v.add("name", "is required")
	}
	if fieldValidator.Var(email, "required,email") != nil {
		v.add("email", "must be a valid email")
	}
	if utf8.RuneCountInString(strings.TrimSpace(password)) < passwordMin {
		v.add("password", "is too short")
	}
	return v.err()
}

// ValidateLogin only checks the email grammar; a wrong password must not be
// distinguishable from an unknown email, so nothing else is checked here.
func ValidateLogin(email string) error {
	var v violations
	if fieldValidator.Var(email, "required,email") != nil {
		v.add("email", "must be a valid email")
	}
	return v.err()
}

// ValidateStatus checks the presence-string update.
func ValidateStatus(status string) error {
	var v violations
	if strings.TrimSpace(status) == "" {
		v.add("status", "is required")
	}
	return v.err()
}
