package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
	maxEmailLength    = 255
	maxFullNameLength = 255
)

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SignUpRequest mirrors the fields needed for sign-up validation.
type SignUpRequest struct {
	Email    string
	Password string
	FullName string
}

// SignInRequest mirrors the fields needed for sign-in validation.
type SignInRequest struct {
	Email    string
	Password string
}

// ValidateSignUpRequest validates the fields of a sign-up request.
// Returns a slice of field errors; empty slice means valid.
func ValidateSignUpRequest(req SignUpRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateEmail(req.Email)...)

	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	} else if len(req.Password) < minPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	} else if len(req.Password) > maxPasswordLength {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at most 72 bytes"})
	}

	errs = append(errs, validateFullName(req.FullName)...)

	return errs
}

// ValidateSignInRequest validates the fields of a sign-in request.
func ValidateSignInRequest(req SignInRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}

// ValidateUpdateProfileRequest validates a profile update. FullName may be
// empty to clear the display name.
func ValidateUpdateProfileRequest(fullName *string) []FieldError {
	if fullName == nil {
		return []FieldError{{Field: "fullName", Message: "fullName is required"}}
	}
	return validateFullName(*fullName)
}

func validateEmail(email string) []FieldError {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		return []FieldError{{Field: "email", Message: "email is required"}}
	case len(email) > maxEmailLength:
		return []FieldError{{Field: "email", Message: "email must be at most 255 characters"}}
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return []FieldError{{Field: "email", Message: "email must be a valid address"}}
	}
	return nil
}

func validateFullName(name string) []FieldError {
	if utf8.RuneCountInString(strings.TrimSpace(name)) > maxFullNameLength {
		return []FieldError{{Field: "fullName", Message: "fullName must be at most 255 characters"}}
	}
	return nil
}
