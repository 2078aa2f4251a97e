// Package validator configures go-playground/validator for the portal's typed
// inputs and turns validation failures into field-level errors.
//
// The same configuration is applied to a standalone engine, used by the
// services, and to Gin's binding engine, so a struct validates identically
// whether it arrives through HTTP or is built in code.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "apexfund/internal/errors"
	"apexfund/internal/models"
)

var (
	engine     *validator.Validate
	engineOnce sync.Once
)

// messages overrides the generic message for specific field/tag pairs.
var messages = map[string]string{
	"email.email":    "Please enter a valid email address",
	"email.required": "Please enter a valid email address",
	"password.min":   "Password must be at least 6 characters",
}

// Register registers the custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// Struct validates s with the standalone engine. It returns nil or an
// *apperrors.AppError with code VALIDATION_FAILED and one FieldError per
// failing field.
func Struct(s interface{}) error {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		engine.SetTagName("binding")
		configure(engine)
	})

	if err := engine.Struct(s); err != nil {
		return FromError(err)
	}
	return nil
}

// FromError converts a validator or binding error into an AppError. Errors
// that are not field validation failures (malformed JSON, a non-numeric
// amount) become INVALID_INPUT.
func FromError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}

	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}
	return apperrors.WithFields(apperrors.ErrValidation, fields)
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("holding_filter", validateHoldingFilter)
}

// jsonName reports fields by their JSON (or form) name.
func jsonName(fld reflect.StructField) string {
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
}

// decimalValue lets numeric tags such as gte=0 apply to decimal amounts.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func validateHoldingFilter(fl validator.FieldLevel) bool {
	switch models.HoldingFilter(fl.Field().String()) {
	case models.HoldingFilterAll, models.HoldingFilterSold, models.HoldingFilterUnsold:
		return true
	}
	return false
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "url":
		return name + " must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", name, fe.Param())
	case "holding_filter":
		return name + " must be one of: sold, unsold"
	}
	return fmt.Sprintf("%s failed the %s check", name, fe.Tag())
}
