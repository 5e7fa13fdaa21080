// Package validation checks request schemas against their declared rules and
// reports the first violated rule as a typed validation error.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/practicas/core/internal/domain/entities"
)

// Validator wraps the validator and translates its failures
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the project's tag conventions
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return &Validator{validate: v}
}

// Validate checks i and returns the first failing rule, or nil
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &entities.Error{Kind: entities.KindValidation, Message: message(fieldErrs[0])}
	}

	return entities.NewInternalError("validation could not run", err)
}

// ValidatePatch validates a partial update and rejects one that carries no field
func (v *Validator) ValidatePatch(i interface{}) error {
	if err := v.Validate(i); err != nil {
		return err
	}

	data, err := json.Marshal(i)
	if err != nil {
		return entities.NewInternalError("failed to encode patch", err)
	}
	if string(data) == "{}" {
		return entities.ErrEmptyPatch
	}

	return nil
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		// dive errors: keep the element index, drop the struct name
		field = ns[strings.Index(ns, ".")+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "isdefault":
		return fmt.Sprintf("%s is assigned by the server and cannot be set", field)
	case "min":
		return boundMessage(fe, field, "at least")
	case "max":
		return boundMessage(fe, field, "at most")
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(oneOfValues(fe.Param()), ", "))
	case "number":
		return fmt.Sprintf("%s must be a whole number", field)
	default:
		return fmt.Sprintf("%s failed the %s rule", field, fe.Tag())
	}
}

func boundMessage(fe validator.FieldError, field, bound string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("%s must be %s %s characters long", field, bound, fe.Param())
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
	default:
		return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
	}
}

// oneOfValues splits a oneof parameter, honouring single-quoted values with spaces
func oneOfValues(param string) []string {
	var (
		values []string
		buf    strings.Builder
		quoted bool
	)

	flush := func() {
		if buf.Len() > 0 {
			values = append(values, buf.String())
			buf.Reset()
		}
	}

	for _, r := range param {
		switch {
		case r == '\'':
			quoted = !quoted
		case r == ' ' && !quoted:
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()

	return values
}
