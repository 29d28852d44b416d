// Package validator adapts go-playground/validator to echo.Validator and
// registers the logbook's date and time tags.
package validator

import (
	"reflect"
	"strings"

	"elogbook/internal/domain/entity"
	"elogbook/internal/util"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator with the yyyymmdd, hhmm, purpose, role and status tags registered.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Tag names double as field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	mustRegister(v, "yyyymmdd", func(fl validator.FieldLevel) bool {
		return util.ValidDate(fl.Field().String())
	})
	mustRegister(v, "hhmm", func(fl validator.FieldLevel) bool {
		return util.ValidClock(fl.Field().String())
	})
	mustRegister(v, "purpose", func(fl validator.FieldLevel) bool {
		return entity.Purpose(fl.Field().String()).IsValid()
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).IsValid()
	})
	mustRegister(v, "status", func(fl validator.FieldLevel) bool {
		return entity.AccountStatus(fl.Field().String()).IsValid()
	})

	return &CustomValidator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate runs the struct's validate tags.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validate.Struct(i)
}

// FieldErrors flattens a validation error into field -> failed rule.
// It returns nil when err is not a validation error.
func FieldErrors(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[fe.Field()] = rule
	}

	return out
}
