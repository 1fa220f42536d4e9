package utils

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validate.RegisterValidation("money", validateMoney)
	validate.RegisterValidation("percent", validatePercent)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func ValidateUUID(value string) error {
	return validate.Var(value, "required,uuid")
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch value := fl.Field().Interface().(type) {
	case string:
		d, err := decimal.NewFromString(value)
		return d, err == nil
	case decimal.Decimal:
		return value, true
	default:
		return decimal.Zero, false
	}
}

func validateMoney(fl validator.FieldLevel) bool {
	amount, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}

func validatePercent(fl validator.FieldLevel) bool {
	percentage, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	return percentage.IsPositive() && percentage.LessThanOrEqual(decimal.NewFromInt(100))
}
