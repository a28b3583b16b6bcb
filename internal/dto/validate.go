// Package dto holds the request and response shapes of the restopos API and
// the projection tables between them and the gorm models.
//
// Projections never set ids or timestamps on models; services own those.
package dto

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/restopos/restopos/internal/apperror"
)

var validate = newValidator() //nolint:gochecknoglobals

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their json name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}

		return name
	})

	return v
}

// Validate checks the validate tags of req and returns an apperror.ValidationError.
func Validate(req any) error {
	return apperror.FromValidator(validate.Struct(req))
}
