package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}

var tagMessages = map[string]string{
	"required": "field '%s' is required",
	"email":    "field '%s' must be a valid email address",
	"max":      "field '%s' must be at most %s characters long",
	"datetime": "field '%s' must be a date in %s format",
}

// ValidationError reports the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	msg, ok := tagMessages[fe.Tag()]
	if !ok {
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("field '%s' is invalid", fe.Field())}
	}
	if strings.Count(msg, "%s") == 2 {
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf(msg, fe.Field(), fe.Param())}
	}
	return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf(msg, fe.Field())}
}
