package handlers

import (
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// registerCustomValidators wires domain-aware checks into gin's binding
// engine so request structs can use `naturetype` and `vouchertype` tags.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterValidation("naturetype", func(fl validator.FieldLevel) bool {
		return domain.NatureType(fl.Field().String()).IsValid()
	})
	v.RegisterValidation("vouchertype", func(fl validator.FieldLevel) bool {
		return domain.VoucherType(fl.Field().String()).IsValid()
	})
}
