// Package validate registers the domain binding tags on gin's validator.
package validate

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Noah-Bakr/Teach-Team-sub001/internal/model"
)

var (
	once   sync.Once
	regErr error
)

// Register adds the "availability" and "role" tags. Safe to call repeatedly.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			regErr = fmt.Errorf("validate: unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("availability", availability); err != nil {
			regErr = err
			return
		}
		regErr = v.RegisterValidation("role", role)
	})
	return regErr
}

func availability(fl validator.FieldLevel) bool {
	return model.Availability(fl.Field().String()).Valid()
}

func role(fl validator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}
