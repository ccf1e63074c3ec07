package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// BindingError converts what gin's ShouldBind returns into a ValidationError
// that names the first offending field.
func BindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		switch fe.Tag() {
		case "required":
			return Required(fe.Field())
		case "min":
			return Invalid(fe.Field(), fmt.Sprintf("%s must have at least %s item(s)", fe.Field(), fe.Param()))
		case "uuid", "uuid4":
			return Invalid(fe.Field(), fe.Field()+" must be a valid identifier")
		case "email":
			return Invalid(fe.Field(), fe.Field()+" must be a valid email address")
		default:
			return Invalid(fe.Field(), fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return Invalid("body", "request body is required")
	case errors.As(err, &syntaxErr):
		return Invalid("body", "request body is not valid JSON")
	case errors.As(err, &typeErr):
		return Invalid(typeErr.Field, fmt.Sprintf("%s has the wrong type", typeErr.Field))
	}
	return Invalid("body", err.Error())
}
