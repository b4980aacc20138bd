package handler

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"staffadmin/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the employee enum validators to gin's binding
// engine and reports fields by their JSON name. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "position", func(fl validator.FieldLevel) bool {
			return model.IsValidPosition(fl.Field().String())
		})
		mustRegister(v, "gender", func(fl validator.FieldLevel) bool {
			return model.IsValidGender(fl.Field().String())
		})
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validator: %v", tag, err))
	}
}
