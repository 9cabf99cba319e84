// Package validation wraps go-playground/validator with the custom rules used by request bodies.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/YusovID/doubt-desk/internal/apperrors"
	"github.com/YusovID/doubt-desk/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()
	idRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func init() {
	// Report fields by their wire name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}

		return name
	})

	rules := map[string]validator.Func{
		// custom_id: path identifiers hold letters, digits, hyphens and underscores.
		"custom_id": func(fl validator.FieldLevel) bool {
			if fl.Field().String() == "" {
				return true
			}

			return idRegexp.MatchString(fl.Field().String())
		},
		"notblank": func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		},
		// question_status accepts any known label; transition rules decide the rest.
		"question_status": func(fl validator.FieldLevel) bool {
			return domain.Status(fl.Field().String()).Valid()
		},
	}

	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register custom validation %q: %v", tag, err))
		}
	}
}

// ValidationError holds one message per failing field.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// Is lets callers treat request validation failures as apperrors.ErrValidation.
func (v *ValidationError) Is(target error) bool {
	return target == apperrors.ErrValidation
}

// ValidateStruct checks s against its validate tags and returns a *ValidationError on failure.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("validation: %w", err)
	}

	messages := make([]string, 0, len(fieldErrors))

	for _, fe := range fieldErrors {
		var message string

		switch fe.Tag() {
		case "required", "notblank":
			message = fmt.Sprintf("field '%s' is required", fe.Field())
		case "custom_id":
			message = fmt.Sprintf("field '%s' must contain only letters, numbers, hyphens, and underscores", fe.Field())
		case "question_status":
			message = fmt.Sprintf("field '%s' must be one of: unassigned, open, assigned, resolved, closed", fe.Field())
		case "min":
			message = fmt.Sprintf("field '%s' must be at least %s", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("field '%s' must be at most %s", fe.Field(), fe.Param())
		default:
			message = fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}

		messages = append(messages, message)
	}

	return &ValidationError{Errors: messages}
}
