package validator

import (
	"log"

	"diabits_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует доменные правила валидации.
// Ошибка регистрации - ошибка запуска приложения.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("healthdatatype", func(fl validator.FieldLevel) bool {
		_, err := models.ParseHealthDataType(fl.Field().String())
		return err == nil
	})

	mustRegister("flowlevel", func(fl validator.FieldLevel) bool {
		_, err := models.ParseFlowLevel(fl.Field().String())
		return err == nil
	})

	mustRegister("strengthunit", func(fl validator.FieldLevel) bool {
		_, err := models.ParseStrengthUnit(fl.Field().String())
		return err == nil
	})
}
