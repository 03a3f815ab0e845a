package validator

import (
	"testing"

	"procal/pkg/logger"
	"procal/pkg/model"
)

func newTestValidator() *CalendarValidator {
	return NewCalendarValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func validCalendar() *model.Calendar {
	return &model.Calendar{
		ProID:          "pro-1",
		TimeZone:       "Europe/Rome",
		StepMinutes:    30,
		MaxAdvanceDays: 60,
		Weekly: model.WeeklySchedule{
			model.Monday: {{Start: "09:00", End: "12:00"}, {Start: "14:00", End: "18:00"}},
			model.Friday: {{Start: "09:00", End: "13:00"}},
		},
	}
}

func TestValidate_AcceptsWellFormedCalendar(t *testing.T) {
	v := newTestValidator()

	if err := v.Validate(validCalendar()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_AcceptsEmptyWeeklySchedule(t *testing.T) {
	v := newTestValidator()

	cal := validCalendar()
	cal.Weekly = model.WeeklySchedule{}
	if err := v.Validate(cal); err != nil {
		t.Fatalf("an always-closed provider is valid, got %v", err)
	}
}

func TestValidate_RejectsBadCalendars(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Calendar)
	}{
		{
			name:   "missing pro id",
			mutate: func(c *model.Calendar) { c.ProID = "" },
		},
		{
			name:   "bogus time zone",
			mutate: func(c *model.Calendar) { c.TimeZone = "Mars/Olympus" },
		},
		{
			name:   "step below minimum",
			mutate: func(c *model.Calendar) { c.StepMinutes = 3 },
		},
		{
			name:   "step above maximum",
			mutate: func(c *model.Calendar) { c.StepMinutes = 240 },
		},
		{
			name:   "horizon beyond a year",
			mutate: func(c *model.Calendar) { c.MaxAdvanceDays = 400 },
		},
		{
			name: "unknown weekday key",
			mutate: func(c *model.Calendar) {
				c.Weekly = model.WeeklySchedule{"monday": {{Start: "09:00", End: "12:00"}}}
			},
		},
		{
			name: "window start not before end",
			mutate: func(c *model.Calendar) {
				c.Weekly = model.WeeklySchedule{model.Monday: {{Start: "12:00", End: "12:00"}}}
			},
		},
		{
			name: "overlapping windows",
			mutate: func(c *model.Calendar) {
				c.Weekly = model.WeeklySchedule{model.Monday: {
					{Start: "09:00", End: "12:00"},
					{Start: "11:00", End: "14:00"},
				}}
			},
		},
		{
			name: "unsorted windows",
			mutate: func(c *model.Calendar) {
				c.Weekly = model.WeeklySchedule{model.Monday: {
					{Start: "14:00", End: "18:00"},
					{Start: "09:00", End: "12:00"},
				}}
			},
		},
		{
			name: "malformed clock time",
			mutate: func(c *model.Calendar) {
				c.Weekly = model.WeeklySchedule{model.Monday: {{Start: "9am", End: "12:00"}}}
			},
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := validCalendar()
			tt.mutate(cal)
			if err := v.Validate(cal); err == nil {
				t.Error("expected validation to fail")
			}
		})
	}
}

func TestValidateException_ClosedDay(t *testing.T) {
	v := newTestValidator()

	exc := &model.CalendarException{ProID: "pro-1", Date: "2025-06-02", Closed: true}
	if err := v.ValidateException(exc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateException_ReplacementWindows(t *testing.T) {
	v := newTestValidator()

	exc := &model.CalendarException{
		ProID:   "pro-1",
		Date:    "2025-06-02",
		Windows: []model.Window{{Start: "14:00", End: "15:00"}},
	}
	if err := v.ValidateException(exc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateException_RejectsClosedWithWindows(t *testing.T) {
	v := newTestValidator()

	exc := &model.CalendarException{
		ProID:   "pro-1",
		Date:    "2025-06-02",
		Closed:  true,
		Windows: []model.Window{{Start: "14:00", End: "15:00"}},
	}
	if err := v.ValidateException(exc); err == nil {
		t.Error("a closed date with replacement windows must be rejected")
	}
}

func TestValidateException_RejectsBadDate(t *testing.T) {
	v := newTestValidator()

	exc := &model.CalendarException{ProID: "pro-1", Date: "02/06/2025", Closed: true}
	if err := v.ValidateException(exc); err == nil {
		t.Error("expected validation to fail on a non-ISO date")
	}
}

func TestValidateException_RejectsOverlappingWindows(t *testing.T) {
	v := newTestValidator()

	exc := &model.CalendarException{
		ProID: "pro-1",
		Date:  "2025-06-02",
		Windows: []model.Window{
			{Start: "09:00", End: "12:00"},
			{Start: "10:00", End: "13:00"},
		},
	}
	if err := v.ValidateException(exc); err == nil {
		t.Error("expected validation to fail on overlapping windows")
	}
}

func TestWindowsWellFormed_BackToBackWindows(t *testing.T) {
	// Adjacent windows share a boundary instant but do not overlap.
	windows := []model.Window{
		{Start: "09:00", End: "12:00"},
		{Start: "12:00", End: "15:00"},
	}
	if !WindowsWellFormed(windows) {
		t.Error("back-to-back windows must be accepted")
	}
}
