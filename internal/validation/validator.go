// Package validation wraps go-playground/validator and turns its errors into
// field-level messages keyed by the wire name of each field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/slug"
)

// Validator is safe for concurrent use once all struct rules are registered.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names ("start_date"), falling back to form names for
	// multipart-only inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}
	mustRegister("notblank", validators.NotBlank)
	mustRegister("slug", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || slug.Valid(s)
	})

	return &Validator{validate: v}
}

// RegisterStructRules adds a struct-level rule for the given input types.
// Rules report failures through validator.StructLevel.ReportError using the
// tags handled by Message.
func (v *Validator) RegisterStructRules(fn validator.StructLevelFunc, types ...any) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Fields validates i and returns the failures as field -> message. A non-nil
// error means i could not be validated at all.
func (v *Validator) Fields(i any) (map[string]string, error) {
	fields := map[string]string{}
	err := v.validate.Struct(i)
	if err == nil {
		return fields, nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil, err
	}
	for _, fe := range ves {
		name := fe.Field()
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = Message(fe)
	}
	return fields, nil
}

// Validate is Fields collapsed into a single apperr validation error.
func (v *Validator) Validate(i any) error {
	fields, err := v.Fields(i)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}

// Message renders a single failure the way the admin forms display it.
func Message(fe validator.FieldError) string {
	field := Label(fe.Field())
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "required_if_free":
		return fmt.Sprintf("The %s field is required when the resource is free.", field)
	case "required_if_paid":
		return fmt.Sprintf("The %s field is required when the resource is not free.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s field must be a valid URL.", field)
	case "numeric":
		return fmt.Sprintf("The %s field must be a number.", field)
	case "datetime":
		return fmt.Sprintf("The %s field must be a date in the format YYYY-MM-DD.", field)
	case "after_or_equal":
		return fmt.Sprintf("The %s field must be a date after or equal to %s.", field, Label(fe.Param()))
	case "slug":
		return fmt.Sprintf("The %s field must only contain lowercase letters, numbers and single hyphens.", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", field, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}

// Label turns a wire name into the words used in messages: "file_url" -> "file url".
func Label(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "["); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, "_", " ")
}
