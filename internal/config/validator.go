package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("companion_mode", isCompanionMode); err != nil {
		return nil, nil, fmt.Errorf("failed to register companion_mode validation: %w", err)
	}
	if err := validate.RegisterTranslation("companion_mode", trans, func(ut ut.Translator) error {
		return ut.Add("companion_mode", "{0} must be one of eligible_days, calendar_days", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("companion_mode", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register companion_mode translation: %w", err)
	}

	return validate, trans, nil
}

func isCompanionMode(fl validator.FieldLevel) bool {
	switch plan.CompanionMode(fl.Field().String()) {
	case plan.CompanionEligibleDays, plan.CompanionCalendarDays:
		return true
	}
	return false
}
