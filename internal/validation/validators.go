// Package validation implements the field-level input checks shared by the
// API handlers. Each validator takes a raw candidate value and returns nil
// on acceptance or a human-readable rejection reason; composite payload
// validators return a map of per-field errors.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/eventsaga/eventsaga-api/internal/domain"
)

var validate = validator.New()

// Email checks syntactic email validity.
func Email(email string) error {
	if email == "" {
		return errors.New("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return errors.New("Invalid email format")
	}
	return nil
}

/// Password checks password strength: at least 8 characters containing at
// least one letter and one number.
func Password(password string) error {
	if password == "" {
		return errors.New("Password is required")
	}
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters long")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasLetter {
		return errors.New("Password must contain at least one letter")
	}
	if !hasDigit {
		return errors.New("Password must contain at least one number")
	}
	return nil
}

// Name checks that a display name has a trimmed length between 2 and 100.
func Name(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return errors.New("Name is required")
	}
	if len(trimmed) < 2 {
		return errors.New("Name must be at least 2 characters long")
	}
	if len(trimmed) > 100 {
		return errors.New("Name must not exceed 100 characters")
	}
	return nil
}

// Role checks that a role is one of the known account roles. The caller is
// responsible for case normalization.
func Role(role string) error {
	if role == "" {
		return errors.New("Role is required")
	}
	if !domain.ValidRole(domain.Role(role)) {
		return fmt.Errorf("Role must be one of: %s, %s", domain.RoleAttendee, domain.RoleOrganizer)
	}
	return nil
}

// UUID checks for the canonical 8-4-4-4-12 hyphenated hex form,
// case-insensitive. Shorter or alternate encodings are rejected.
func UUID(s string) error {
	if s == "" {
		return errors.New("UUID is required")
	}
	if len(s) != 36 {
		return errors.New("Invalid UUID format")
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("Invalid UUID format")
	}
	return nil
}

// Phone checks that a phone number contains 10 to 15 digits after common
// separator characters are stripped.
func Phone(phone string) error {
	if phone == "" {
		return errors.New("Phone number is required")
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '+':
			return -1
		}
		return r
	}, phone)

	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return errors.New("Phone number must contain only digits")
		}
	}
	if len(cleaned) < 10 || len(cleaned) > 15 {
		return errors.New("Phone number must be between 10 and 15 digits")
	}
	return nil
}

// RequiredFields flags each listed field that is absent, nil, or an empty
// string in data. Errors are keyed by field name with a humanized message.
func RequiredFields(data map[string]any, fields []string) map[string]string {
	errs := make(map[string]string)
	for _, field := range fields {
		value, ok := data[field]
		if !ok || value == nil {
			errs[field] = humanize(field) + " is required"
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			errs[field] = humanize(field) + " is required"
		}
	}
	return errs
}

// EventPayload validates the composite event creation payload. It returns a
// map of per-field errors, empty when the payload is acceptable. Capacity is
// optional; pass nil when absent.
func EventPayload(title, description, startsAt, location string, capacity *int) map[string]string {
	errs := make(map[string]string)

	required := map[string]string{
		"title":       title,
		"description": description,
		"datetime":    startsAt,
		"location":    location,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			errs[field] = humanize(field) + " is required"
		}
	}

	if title != "" {
		if len(title) < 3 {
			errs["title"] = "Title must be at least 3 characters long"
		} else if len(title) > 200 {
			errs["title"] = "Title must not exceed 200 characters"
		}
	}
	if description != "" {
		if len(description) < 10 {
			errs["description"] = "Description must be at least 10 characters long"
		} else if len(description) > 5000 {
			errs["description"] = "Description must not exceed 5000 characters"
		}
	}
	if location != "" {
		if len(location) < 3 {
			errs["location"] = "Location must be at least 3 characters long"
		} else if len(location) > 500 {
			errs["location"] = "Location must not exceed 500 characters"
		}
	}
	if capacity != nil {
		if *capacity < 1 {
			errs["capacity"] = "Capacity must be at least 1"
		} else if *capacity > 1000000 {
			errs["capacity"] = "Capacity must not exceed 1,000,000"
		}
	}

	return errs
}

// GroupPayload validates the composite group creation payload, returning a
// map of per-field errors.
func GroupPayload(name, description string) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	} else if len(name) < 3 {
		errs["name"] = "Name must be at least 3 characters long"
	} else if len(name) > 100 {
		errs["name"] = "Name must not exceed 100 characters"
	}

	if strings.TrimSpace(description) == "" {
		errs["description"] = "Description is required"
	} else if len(description) < 10 {
		errs["description"] = "Description must be at least 10 characters long"
	} else if len(description) > 1000 {
		errs["description"] = "Description must not exceed 1000 characters"
	}

	return errs
}

// humanize turns a snake_case field name into a title-cased label,
// e.g. "avatar_url" -> "Avatar Url".
func humanize(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
