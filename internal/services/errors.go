package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotOwner           = errors.New("not authorized")
	ErrIDMismatch         = errors.New("route id does not match payload id")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("that email address is already registered")
	ErrViewsDisabled      = errors.New("view tracking is not enabled")
)

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

func newValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

// NewValidationError converts validator failures into readable messages. Other
// errors are returned as a single message.
func NewValidationError(err error) *ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return newValidationError(err.Error())
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return newValidationError(msgs...)
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", field)
	case "max":
		return fmt.Sprintf("The %s field must be at most %s characters.", field, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s field must be %s or greater.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s field must be %s or less.", field, fe.Param())
	case "nomarkup":
		return fmt.Sprintf("The %s field must not contain HTML markup.", field)
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", field, fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", field)
}
