// Package validate turns go-playground/validator failures into
// field-keyed messages.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/portal-berita/core/internal/pkg/apperr"
)

var (
	setupOnce sync.Once
	std       = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	return v
}

// fieldName reports struct fields by their json (or form) name so error
// keys match what the client sent.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// Setup makes gin's binding validator report json field names.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

// Struct validates s with the shared validator.
func Struct(s interface{}) apperr.Fields {
	return Fields(std.Struct(s))
}

// Var validates a single value against tag and reports failures under field.
func Var(field string, value interface{}, tag string) apperr.Fields {
	err := std.Var(value, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Fields{field: {err.Error()}}
	}
	out := apperr.Fields{}
	for _, fe := range verrs {
		out.Add(field, message(field, fe))
	}
	return out
}

// Fields converts a validator error into field-keyed messages. It returns
// nil for a nil error and for errors that are not validation failures.
func Fields(err error) apperr.Fields {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := apperr.Fields{}
	for _, fe := range verrs {
		field := fe.Field()
		out.Add(field, message(field, fe))
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s may not have more than %s items", field, fe.Param())
		}
		return fmt.Sprintf("%s may not be greater than %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
