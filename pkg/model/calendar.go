package model

import (
	"fmt"
	"strconv"
	"time"
)

// Weekday is the canonical weekday key used in stored schedules.
// Legacy representations (numeric 0-6, capitalized names) are normalized
// to these keys at the API boundary and never stored.
type Weekday string

const (
	Monday    Weekday = "mon"
	Tuesday   Weekday = "tue"
	Wednesday Weekday = "wed"
	Thursday  Weekday = "thu"
	Friday    Weekday = "fri"
	Saturday  Weekday = "sat"
	Sunday    Weekday = "sun"
)

var weekdayKeys = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// WeekdayOf maps a time.Weekday to its canonical key.
func WeekdayOf(d time.Weekday) Weekday {
	return weekdayKeys[d]
}

// Window is a contiguous open interval within a day, in the provider's
// local wall-clock time. Start must sort strictly before End.
type Window struct {
	Start string `json:"start" bson:"start" validate:"required,hhmm"`
	End   string `json:"end" bson:"end" validate:"required,hhmm"`
}

// ClockMinutes parses an "HH:MM" wall-clock string into minutes from
// midnight.
func ClockMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid wall-clock time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in wall-clock time %q", s)
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in wall-clock time %q", s)
	}
	return h*60 + m, nil
}

// WeeklySchedule maps weekday keys to the ordered open windows of that day.
// A missing or empty day means closed.
type WeeklySchedule map[Weekday][]Window

// Calendar is a provider's bookable-time configuration: the recurring
// weekly template plus per-provider slotting parameters. One document per
// provider, keyed by the provider id; replaced on update, never deleted.
type Calendar struct {
	ProID          string         `json:"pro_id" bson:"_id" validate:"required,min=1,max=64"`
	Label          string         `json:"label,omitempty" bson:"label,omitempty" validate:"omitempty,min=2,max=100"`
	TimeZone       string         `json:"time_zone" bson:"time_zone" validate:"required,timezone"`
	StepMinutes    int            `json:"step_min" bson:"step_min" validate:"required,min=5,max=120"`
	MaxAdvanceDays int            `json:"max_advance_days" bson:"max_advance_days" validate:"required,min=1,max=365"`
	Weekly         WeeklySchedule `json:"weekly" bson:"weekly" validate:"weekly_schedule"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Location resolves the calendar's IANA time zone.
func (c *Calendar) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
