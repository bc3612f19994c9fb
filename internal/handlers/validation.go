package handlers

import (
	"reflect"
	"sync"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/SscSPs/ledger_engine/internal/utils/accounting"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerValidatorsOnce sync.Once

// registerValidators installs the ledger's custom binding rules on gin's validator:
//   - decimal2: a non-negative amount with at most two decimal places that fits storage
//   - accountsubtype: a known account subtype
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.String()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("decimal2", validateDecimal2)
		_ = v.RegisterValidation("accountsubtype", validateAccountSubtype)
	})
}

func validateDecimal2(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() &&
		d.Equal(d.Truncate(accounting.AmountScale)) &&
		d.LessThanOrEqual(accounting.MaxAmount)
}

func validateAccountSubtype(fl validator.FieldLevel) bool {
	return domain.AccountSubtype(fl.Field().String()).Valid()
}
