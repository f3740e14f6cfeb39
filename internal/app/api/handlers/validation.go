package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/fatflowers/paygate/internal/app/service/payment"
)

var fieldNamesOnce sync.Once

// UseJSONFieldNames makes gin's binding errors name fields the way clients send them.
func UseJSONFieldNames() {
	fieldNamesOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(payment.JSONFieldName)
		}
	})
}
