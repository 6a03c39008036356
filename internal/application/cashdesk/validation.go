package cashdesk

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/hotelops/backend/internal/domain/cashdesk"
	"github.com/hotelops/backend/internal/domain/shared"
	"github.com/hotelops/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// commandValidator returns the shared validator. Field names in errors are
// the JSON names, amounts are compared as numbers, and the currency and
// category tags check the domain enums.
func commandValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return valueobject.Currency(fl.Field().String()).IsValid()
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return cashdesk.TransactionCategory(fl.Field().String()).IsValid()
		})
		validate = v
	})
	return validate
}

// validateCommand runs the struct tags of cmd and converts failures into a
// VALIDATION_ERROR carrying one message per field.
func validateCommand(cmd any) error {
	err := commandValidator().Struct(cmd)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, seen := fields[key]; !seen {
			fields[key] = validationMessage(fe)
		}
	}
	return shared.NewValidationError(fields)
}

// fieldKey strips the struct name from the namespace:
// "CloseShiftCommand.denominations[0].quantity" -> "denominations[0].quantity"
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "This field is required"
	case "min":
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return "Must contain at least " + fe.Param() + " item(s)"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "currency":
		return "Unsupported currency"
	case "category":
		return "Unknown transaction category"
	default:
		return "Invalid value"
	}
}
