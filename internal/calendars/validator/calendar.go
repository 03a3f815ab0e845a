package validator

import (
	"errors"
	"fmt"
	"strings"

	"procal/pkg/logger"
	"procal/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CalendarValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCalendarValidator(log *logger.Logger) *CalendarValidator {
	v := validator.New()

	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		log.Fatal("Failed to register 'hhmm' validator", "error", err)
	}
	if err := v.RegisterValidation("weekly_schedule", validateWeeklySchedule); err != nil {
		log.Fatal("Failed to register 'weekly_schedule' validator", "error", err)
	}

	log.Info("Calendar validator initialized successfully")

	return &CalendarValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := model.ClockMinutes(fl.Field().String())
	return err == nil
}

func validateWeeklySchedule(fl validator.FieldLevel) bool {
	weekly, ok := fl.Field().Interface().(model.WeeklySchedule)
	if !ok {
		return false
	}

	for day, windows := range weekly {
		switch day {
		case model.Monday, model.Tuesday, model.Wednesday, model.Thursday,
			model.Friday, model.Saturday, model.Sunday:
		default:
			return false
		}

		if !WindowsWellFormed(windows) {
			return false
		}
	}
	return true
}

// WindowsWellFormed reports whether a day's windows parse, each start sorts
// strictly before its end, and the list is ordered without overlap.
func WindowsWellFormed(windows []model.Window) bool {
	prevEnd := -1
	for _, w := range windows {
		start, err := model.ClockMinutes(w.Start)
		if err != nil {
			return false
		}
		end, err := model.ClockMinutes(w.End)
		if err != nil {
			return false
		}
		if start >= end {
			return false
		}
		if start < prevEnd {
			return false
		}
		prevEnd = end
	}
	return true
}

func (v *CalendarValidator) Validate(cal *model.Calendar) error {
	if err := v.validate.Struct(cal); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *CalendarValidator) ValidateException(exc *model.CalendarException) error {
	if err := v.validate.Struct(exc); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if exc.Closed && len(exc.Windows) > 0 {
		return ValidationErrors{{
			Field:   "Windows",
			Message: "a closed date cannot carry replacement windows",
		}}
	}
	if !exc.Closed && !WindowsWellFormed(exc.Windows) {
		return ValidationErrors{{
			Field:   "Windows",
			Message: "windows must be ordered, non-overlapping HH:MM ranges with start before end",
		}}
	}

	return nil
}

func (v *CalendarValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "timezone":
			message = fmt.Sprintf("%s must be a valid IANA time zone name", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be a HH:MM 24-hour wall-clock time", err.Field())
		case "weekly_schedule":
			message = "weekly schedule must map valid weekday keys (mon..sun) to ordered, non-overlapping windows"
		case "datetime":
			message = fmt.Sprintf("%s must be a YYYY-MM-DD date", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
