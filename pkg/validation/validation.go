// Package validation checks a LogRecord against the shape the logs service
// accepts before anything is sent.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"

	"github.com/mslogs/mslogs-sdk-go/model"
)

const objectIDTag = "objectid"

var (
	objectIDRegex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

	schema = newSchema()
)

func newSchema() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation(objectIDTag, isObjectID); err != nil {
		panic(err)
	}
	return v
}

func isObjectID(fl validator.FieldLevel) bool {
	return IsObjectID(fl.Field().String())
}

// IsObjectID reports whether id is a 24 character hexadecimal identifier.
func IsObjectID(id string) bool {
	return objectIDRegex.MatchString(id)
}

// Validate returns nil when record is well formed, otherwise a
// *model.ValidationError enumerating every violated constraint.
func Validate(record *model.LogRecord) error {
	if record == nil {
		return model.NewValidationError(&model.FieldError{Field: "record", Rule: "required"})
	}

	err := schema.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return model.NewValidationError(err)
	}

	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, &model.FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return model.NewValidationError(combined)
}
