package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"dorm-portal/pkg/customvalidator"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// MinPasswordLength - как в форме регистрации.
const MinPasswordLength = 6

// registerRules регистрирует общие теги и доменные правила.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("custom_email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("password", isPassword); err != nil {
		return err
	}
	return customvalidator.RegisterCustomValidations(v)
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isPassword(fl validator.FieldLevel) bool {
	return utf8.RuneCountInString(fl.Field().String()) >= MinPasswordLength
}
