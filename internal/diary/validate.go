package diary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a user-correctable input problem. Nothing is written
// when a constructor returns one.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is or wraps a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return Mood(fl.Field().String()).Valid()
	})
	v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		return ValidTheme(fl.Field().String())
	})

	return v
}

// check runs struct validation and converts the first failure
func check(s any) error {
	if err := validate.Struct(s); err != nil {
		return toValidationError(err, "")
	}
	return nil
}

// checkVar validates a single value against tag
func checkVar(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toValidationError(err, field)
	}
	return nil
}

func toValidationError(err error, field string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Field: field, Reason: "is invalid", Err: err}
	}

	fe := fieldErrs[0]
	name := field
	if name == "" {
		name = lowerFirst(fe.Field())
	}
	return &ValidationError{Field: name, Reason: reason(fe), Err: err}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s items", fe.Param())
	case "mood":
		return fmt.Sprintf("must be one of %s", joinMoods())
	case "theme":
		return fmt.Sprintf("must be one of %s", strings.Join(Themes, ", "))
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func joinMoods() string {
	parts := make([]string, len(Moods))
	for i, m := range Moods {
		parts[i] = string(m)
	}
	return strings.Join(parts, " ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
