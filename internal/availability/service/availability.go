package service

import (
	"context"
	"errors"
	"time"

	"procal/internal/availability/repository"
	"procal/internal/availability/slotgen"
	calendarerrors "procal/internal/calendars/errors"
	calendarrepo "procal/internal/calendars/repository"
	"procal/pkg/config"
	apperrors "procal/pkg/errors"
	"procal/pkg/model"
	"procal/pkg/sanitizer"
)

// SlotView is one candidate slot with its occupancy verdict.
type SlotView struct {
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status model.SlotStatus `json:"status"`
}

// DayAvailability groups the slots of one calendar date.
type DayAvailability struct {
	Date  string     `json:"date"`
	Slots []SlotView `json:"slots"`
}

// Availability is the full response for one provider and date range.
type Availability struct {
	ProID    string            `json:"pro_id"`
	TimeZone string            `json:"time_zone"`
	StepMin  int               `json:"step_min"`
	Days     []DayAvailability `json:"days"`
}

type AvailabilityService interface {
	GetAvailability(ctx context.Context, proID string, from, to time.Time, stepMin int) (*Availability, error)
}

type availabilityService struct {
	calendars calendarrepo.CalendarRepository
	occupancy repository.OccupancyRepository
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	calendars calendarrepo.CalendarRepository,
	occupancy repository.OccupancyRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		calendars: calendars,
		occupancy: occupancy,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *availabilityService) GetAvailability(ctx context.Context, proID string, from, to time.Time, stepMin int) (*Availability, error) {
	proID = sanitizer.SanitizeID(proID)
	if proID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}
	if to.Before(from) {
		return nil, apperrors.InvalidInput("'to' date must not precede 'from' date")
	}

	rangeDays := int(to.Sub(from).Hours()/24) + 1
	if rangeDays > s.cfg.MaxRangeDays {
		return nil, apperrors.RangeTooLarge(s.cfg.MaxRangeDays)
	}

	cal, err := s.calendars.FindByProID(ctx, proID)
	if err != nil {
		if errors.Is(err, calendarerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Calendar", proID)
		}
		s.cfg.Log.Error("Failed to load calendar for availability",
			"pro_id", proID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load calendar", err)
	}

	loc, err := cal.Location()
	if err != nil {
		s.cfg.Log.Error("Calendar carries an unloadable time zone",
			"pro_id", proID,
			"time_zone", cal.TimeZone,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to resolve calendar time zone", err)
	}

	if stepMin == 0 {
		stepMin = cal.StepMinutes
	}
	if stepMin < 5 || stepMin > 120 {
		return nil, apperrors.InvalidInput("step_min must be between 5 and 120 minutes")
	}
	step := time.Duration(stepMin) * time.Minute

	now := s.now()
	today := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	horizon := today.AddDate(0, 0, cal.MaxAdvanceDays)

	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	// Dates beyond the advance-booking horizon are simply not offered.
	if toDay.After(horizon) {
		toDay = horizon
	}

	result := &Availability{
		ProID:    proID,
		TimeZone: cal.TimeZone,
		StepMin:  stepMin,
		Days:     []DayAvailability{},
	}
	if toDay.Before(fromDay) {
		return result, nil
	}

	exceptions, err := s.calendars.FindExceptions(ctx, proID,
		fromDay.Format(model.DateLayout), toDay.Format(model.DateLayout))
	if err != nil {
		s.cfg.Log.Error("Failed to load calendar exceptions",
			"pro_id", proID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load calendar exceptions", err)
	}
	excByDate := make(map[string]*model.CalendarException, len(exceptions))
	for _, exc := range exceptions {
		excByDate[exc.Date] = exc
	}

	intervals, err := s.occupancy.FindIntervals(ctx, proID, fromDay, toDay.AddDate(0, 0, 1), now)
	if err != nil {
		s.cfg.Log.Error("Failed to load occupancy intervals",
			"pro_id", proID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to load occupancy", err)
	}

	for day := fromDay; !day.After(toDay); day = day.AddDate(0, 0, 1) {
		dateKey := day.Format(model.DateLayout)
		windows := ResolveWindows(cal, excByDate[dateKey], day)

		slots := []SlotView{}
		for slot := range slotgen.Day(day, windows, step, loc) {
			if slot.Start.Before(now) {
				continue
			}
			slots = append(slots, SlotView{
				Start:  slot.Start,
				End:    slot.End,
				Status: classify(slot, intervals),
			})
		}

		result.Days = append(result.Days, DayAvailability{
			Date:  dateKey,
			Slots: slots,
		})
	}

	s.cfg.Log.Debug("Availability computed",
		"pro_id", proID,
		"from", fromDay.Format(model.DateLayout),
		"to", toDay.Format(model.DateLayout),
		"days", len(result.Days),
	)
	return result, nil
}

// ResolveWindows returns the open wall-clock windows of one calendar date.
// An exception replaces the weekly template outright: a closed date yields
// nothing, and exception windows are never merged with template windows.
func ResolveWindows(cal *model.Calendar, exc *model.CalendarException, day time.Time) []model.Window {
	if exc != nil {
		if exc.Closed {
			return nil
		}
		return exc.Windows
	}
	return cal.Weekly[model.WeekdayOf(day.Weekday())]
}

// classify tags a slot by the records overlapping it. A booking outranks a
// lock when both touch the slot.
func classify(slot model.Slot, intervals []model.Interval) model.SlotStatus {
	status := model.SlotFree
	for _, iv := range intervals {
		if !iv.Overlaps(slot.Start, slot.End) {
			continue
		}
		if iv.Kind == model.OccupiedByBooking {
			return model.SlotBooked
		}
		status = model.SlotLocked
	}
	return status
}
