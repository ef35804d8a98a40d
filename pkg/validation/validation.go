package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	pkgerrors "github.com/angelmondragon/comicstore/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// UsernamePattern is the accepted account username alphabet.
var UsernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return UsernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register username validation: %v", err))
	}
	return v
}

// Struct runs the validate tags on value and reports failures as a
// VALIDATION_ERROR keyed by json field name.
func Struct(value any) error {
	if err := validate.Struct(value); err != nil {
		return toTyped(err)
	}
	return nil
}

func toTyped(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = message(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	}
	return "is invalid"
}
