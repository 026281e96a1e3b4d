package shared

import (
	"reflect"
	"sync"

	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerValidatorsOnce sync.Once

// RegisterValidators 注册请求绑定使用的自定义校验规则
func RegisterValidators() {
	registerValidatorsOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterCustomTypeFunc(flexStringValue, service.FlexString{})
		_ = engine.RegisterValidation("shift_type", validateShiftType)
		_ = engine.RegisterValidation("hhmm", validateTimeLabel)
	})
}

func flexStringValue(field reflect.Value) interface{} {
	if value, ok := field.Interface().(service.FlexString); ok {
		return value.Value
	}
	return nil
}

func validateShiftType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := service.ParseShiftType(fl.Field().String())
	return err == nil
}

func validateTimeLabel(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	_, err := service.ClassifyBucket(fl.Field().String())
	return err == nil
}
