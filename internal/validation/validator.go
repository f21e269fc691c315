package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[\w.-]+$`)

// FieldError is a single invalid field, named by its json tag.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// Error is returned when a struct fails validation. It serializes as the
// body of a 400 response.
type Error struct {
	Errors []FieldError `json:"errors"`
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator wraps a go-playground validator configured for request structs.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &Validator{validator: v}
}

// Struct validates s and returns *Error listing every failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	out := &Error{Errors: make([]FieldError, 0, len(validationErrors))}
	for _, fe := range validationErrors {
		out.Errors = append(out.Errors, FieldError{Field: fe.Field(), Msg: message(fe.Field(), fe.Tag(), fe.Param())})
	}
	return out
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, param)
	case "username":
		return fmt.Sprintf("%s may only contain letters, numbers, dots, hyphens and underscores", field)
	default:
		return fmt.Sprintf("something wrong on %s; %s", field, tag)
	}
}
