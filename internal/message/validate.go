package message

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the writable fields of m.
func Validate(m *Message) error {
	return toValidationError(validate.Struct(m))
}

func validateField(value, field, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return &ValidationError{Field: field, Rule: errs[0].Tag(), Param: errs[0].Param()}
	}
	return err
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return &ValidationError{Field: fe.Field(), Rule: fe.Tag(), Param: fe.Param()}
	}
	return err
}
