package validation

import (
	"net/mail"
	"strings"
)

// commonPasswordFragments are rejected anywhere in a password, case-insensitively.
var commonPasswordFragments = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
}

// Email checks length (RFC 5321 caps the address at 254 bytes) and RFC 5322 syntax.
func Email(email string) *FieldError {
	switch {
	case email == "":
		return &FieldError{Field: "email", Message: "email is required"}
	case len(email) > 254:
		return &FieldError{Field: "email", Message: "email is too long (max 254 characters)"}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &FieldError{Field: "email", Message: "email must be a valid email address"}
	}
	return nil
}

// Password enforces 12..72 bytes (bcrypt truncates past 72) and blocks common fragments.
func Password(password string) *FieldError {
	if len(password) < 12 {
		return &FieldError{Field: "password", Message: "password must be at least 12 characters"}
	}
	if len(password) > 72 {
		return &FieldError{Field: "password", Message: "password must not exceed 72 characters"}
	}

	lower := strings.ToLower(password)
	for _, fragment := range commonPasswordFragments {
		if strings.Contains(lower, fragment) {
			return &FieldError{Field: "password", Message: "password is too common, please choose a stronger one"}
		}
	}
	return nil
}

// Name requires a non-blank display name of at most 100 characters.
func Name(name string) *FieldError {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &FieldError{Field: "name", Message: "name is required"}
	}
	if len([]rune(trimmed)) > 100 {
		return &FieldError{Field: "name", Message: "name is too long (max 100 characters)"}
	}
	return nil
}
