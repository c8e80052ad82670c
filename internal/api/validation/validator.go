package validation

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Validator проверка тел запросов по тегам validate.
// Дополнительные теги: date (YYYY-MM-DD), clock (HH:MM, допускается 24:00).
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		_, err := time.Parse(domain.DateFormat, value)
		return err == nil
	})

	v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return types.TimeString(value).Validate() == nil
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s interface{}) error {
	return v.v.Struct(s)
}

// Details поле -> не прошедший тег. Для ошибок другого типа nil.
func Details(err error) map[string]string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return nil
	}

	details := make(map[string]string, len(errs))
	for _, e := range errs {
		details[e.Field()] = e.Tag()
	}
	return details
}
