package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator validates request DTOs against their struct tags plus the
// service's custom rules.
type Validator struct {
	validate *validator.Validate
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// New creates a validator with the custom rules registered.
func New() *Validator {
	validate := validator.New()

	// Usernames double as login identifiers and appear in URLs.
	validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return len(name) >= 3 && len(name) <= 50 && usernamePattern.MatchString(name)
	})

	return &Validator{validate: validate}
}

// Validate validates a struct and returns the collected field errors.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	var errs ValidationErrors

	if err := v.validate.Struct(s); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			errs = append(errs, ValidationError{
				Field:   fe.Field(),
				Message: messageFor(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
	}

	return errs
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "must be 3-50 characters of letters, digits, '.', '_' or '-'"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
