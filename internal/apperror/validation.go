package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed validation rule.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
	Value any    `json:"value,omitempty"`
}

// ValidationError carries the failed fields of a request.
type ValidationError struct {
	Fields []FieldError
}

// Error implements error.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Param != "" {
			parts = append(parts, f.Field+" ("+f.Tag+"="+f.Param+")")
			continue
		}

		parts = append(parts, f.Field+" ("+f.Tag+")")
	}

	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, tag string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Tag: tag}}}
}

// FromValidator converts validator errors into a ValidationError.
// Errors of any other type are returned unchanged.
func FromValidator(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		f := FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		}

		if !secret(f.Field) {
			f.Value = fe.Value()
		}

		out.Fields = append(out.Fields, f)
	}

	return out
}

// secret reports whether the value of field must not be echoed back.
func secret(field string) bool {
	f := strings.ToLower(field)

	return strings.Contains(f, "password") || strings.Contains(f, "token")
}
