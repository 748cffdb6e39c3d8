// Package validator checks incoming requests before they reach the
// store: struct tags cover shape, the store-backed rules cover
// uniqueness and cross-record constraints.
package validator // import "github.com/openshelf/openshelf/validator"

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` tags of a request struct.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return errors.Wrap(err, "invalid validation target")
		}
		for _, fieldError := range err.(validator.ValidationErrors) {
			return errors.Errorf("field %q failed on the %q rule", fieldError.Field(), fieldError.Tag())
		}
	}
	return nil
}
