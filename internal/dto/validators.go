package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// RegisterCustomValidations registers binding validations that tags alone
// cannot express. Must run once before any request is bound.
func RegisterCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("dgt0", decimalGreaterThanZero)
	}
}

// decimalGreaterThanZero validates that a decimal.Decimal field is strictly
// positive. The stock gt/gte validators cannot read shopspring decimals.
func decimalGreaterThanZero(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}
