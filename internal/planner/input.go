package planner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/studyplan/internal/plan"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

// RegisterInput describes a new material.
type RegisterInput struct {
	Name            string        `json:"name" validate:"required,max=255"`
	TotalAmount     int           `json:"totalAmount" validate:"min=1"`
	CurrentProgress int           `json:"currentProgress" validate:"min=0,ltefield=TotalAmount"`
	UnitType        plan.UnitType `json:"unitType" validate:"oneof=PAGES PROBLEMS GENERIC"`
	DailyTarget     int           `json:"dailyTarget" validate:"min=0"`
	// StartDate defaults to today.
	StartDate        plan.Date     `json:"startDate"`
	Deadline         *plan.Date    `json:"deadline"`
	ExcludedWeekdays plan.Weekdays `json:"excludedWeekdays" validate:"max=7,dive,min=0,max=6"`
}

func (in RegisterInput) material(id string, today plan.Date) plan.Material {
	start := in.StartDate
	if start.IsZero() {
		start = today
	}
	return plan.Material{
		ID:               id,
		Name:             in.Name,
		TotalAmount:      in.TotalAmount,
		CurrentProgress:  in.CurrentProgress,
		UnitType:         in.UnitType,
		DailyTarget:      in.DailyTarget,
		StartDate:        start,
		Deadline:         in.Deadline,
		ExcludedWeekdays: in.ExcludedWeekdays.Normalize(),
	}
}

// TaskInput describes a task placed on the calendar.
type TaskInput struct {
	MaterialID    string        `json:"materialId"`
	Title         string        `json:"title" validate:"required,max=255"`
	Date          plan.Date     `json:"date"`
	Hour          *int          `json:"hour" validate:"omitempty,min=0,max=24"`
	DurationHours int           `json:"durationHours" validate:"min=1,max=24"`
	Priority      plan.Priority `json:"priority" validate:"omitempty,oneof=high medium low"`
}

type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() (*inputValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &inputValidator{validate: validate, translator: trans}, nil
}

func (v *inputValidator) check(input any) error {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct() > %w", err)
	}
	inputErr := &InputError{}
	for _, e := range validationErrors {
		inputErr.Fields = append(inputErr.Fields, FieldError{
			Field:   strings.SplitN(e.Namespace(), ".", 2)[1],
			Message: e.Translate(v.translator),
		})
	}
	return inputErr
}

// FieldError is one rejected input field.
type FieldError struct {
	Field   string
	Message string
}

// InputError lists the fields that failed validation. It matches ErrInvalidInput.
type InputError struct {
	Fields []FieldError
}

func (e *InputError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(messages, ", "))
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}
