// Package validation wraps go-playground/validator with the catalog's text rules.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"gift_catalog/internal/errs"
)

// Tag names are single tokens made of letters, digits and underscores.
var tagNamePattern = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("tagname", func(fl validator.FieldLevel) bool {
		return tagNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("printable", func(fl validator.FieldLevel) bool {
		return isPrintable(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func isPrintable(s string) bool {
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// Var validates a single value against a tag list such as "required,tagname"
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return translate(err, field, value)
	}
	return nil
}

// Struct validates a struct using its `validate` tags
func Struct(s any) error {
	if err := validate.Struct(s); err != nil {
		return translate(err, "", nil)
	}
	return nil
}

func translate(err error, field string, value any) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	first := verrs[0]
	if field == "" {
		field = first.Field()
		value = first.Value()
	}
	return errs.InvalidData("%s failed the %q rule", field, first.Tag()).With(field, value)
}
