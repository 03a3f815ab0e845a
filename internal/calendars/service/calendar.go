package service

import (
	"context"
	"errors"
	"time"

	calendarerrors "procal/internal/calendars/errors"
	"procal/internal/calendars/repository"
	"procal/internal/calendars/validator"
	"procal/pkg/config"
	apperrors "procal/pkg/errors"
	"procal/pkg/model"
	"procal/pkg/sanitizer"
)

type CalendarService interface {
	Upsert(ctx context.Context, cal *model.Calendar) error
	GetByProID(ctx context.Context, proID string) (*model.Calendar, error)
	PutException(ctx context.Context, exc *model.CalendarException) error
	DeleteException(ctx context.Context, proID string, date string) error
}

type calendarService struct {
	repo      repository.CalendarRepository
	validator *validator.CalendarValidator
	cfg       *config.Config
}

func NewCalendarService(
	repo repository.CalendarRepository,
	validator *validator.CalendarValidator,
	cfg *config.Config,
) CalendarService {
	return &calendarService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *calendarService) Upsert(ctx context.Context, cal *model.Calendar) error {
	s.sanitize(cal)
	s.applyDefaults(cal)

	if err := s.validator.Validate(cal); err != nil {
		s.cfg.Log.Warn("Calendar validation failed",
			"pro_id", cal.ProID,
			"error", err,
		)
		return apperrors.Validation("Calendar validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Upsert(ctx, cal); err != nil {
		s.cfg.Log.Error("Failed to upsert calendar",
			"pro_id", cal.ProID,
			"error", err,
		)
		return apperrors.Internal("Failed to save calendar", err)
	}

	s.cfg.Log.Info("Calendar saved successfully",
		"pro_id", cal.ProID,
		"time_zone", cal.TimeZone,
		"step_min", cal.StepMinutes,
	)
	return nil
}

func (s *calendarService) GetByProID(ctx context.Context, proID string) (*model.Calendar, error) {
	proID = sanitizer.SanitizeID(proID)
	if proID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	cal, err := s.repo.FindByProID(ctx, proID)
	if err != nil {
		if errors.Is(err, calendarerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Calendar", proID)
		}
		s.cfg.Log.Error("Failed to get calendar",
			"pro_id", proID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve calendar", err)
	}

	return cal, nil
}

func (s *calendarService) PutException(ctx context.Context, exc *model.CalendarException) error {
	exc.ProID = sanitizer.SanitizeID(exc.ProID)

	if err := s.validator.ValidateException(exc); err != nil {
		s.cfg.Log.Warn("Calendar exception validation failed",
			"pro_id", exc.ProID,
			"date", exc.Date,
			"error", err,
		)
		return apperrors.Validation("Calendar exception validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	// An exception without a calendar would never be read.
	if _, err := s.repo.FindByProID(ctx, exc.ProID); err != nil {
		if errors.Is(err, calendarerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Calendar", exc.ProID)
		}
		return apperrors.Internal("Failed to check calendar existence", err)
	}

	if err := s.repo.UpsertException(ctx, exc); err != nil {
		s.cfg.Log.Error("Failed to upsert calendar exception",
			"pro_id", exc.ProID,
			"date", exc.Date,
			"error", err,
		)
		return apperrors.Internal("Failed to save calendar exception", err)
	}

	s.cfg.Log.Info("Calendar exception saved successfully",
		"pro_id", exc.ProID,
		"date", exc.Date,
		"closed", exc.Closed,
		"windows", len(exc.Windows),
	)
	return nil
}

func (s *calendarService) DeleteException(ctx context.Context, proID string, date string) error {
	proID = sanitizer.SanitizeID(proID)
	if proID == "" {
		return apperrors.InvalidInput("Provider ID cannot be empty")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return apperrors.InvalidInput("Invalid exception date, want YYYY-MM-DD: " + date)
	}

	if err := s.repo.DeleteException(ctx, proID, date); err != nil {
		if errors.Is(err, calendarerrors.ErrExceptionNotFound) {
			return apperrors.NotFoundWithID("Calendar exception", proID+" "+date)
		}
		s.cfg.Log.Error("Failed to delete calendar exception",
			"pro_id", proID,
			"date", date,
			"error", err,
		)
		return apperrors.Internal("Failed to delete calendar exception", err)
	}

	s.cfg.Log.Info("Calendar exception deleted successfully", "pro_id", proID, "date", date)
	return nil
}

func (s *calendarService) sanitize(cal *model.Calendar) {
	cal.ProID = sanitizer.SanitizeID(cal.ProID)
	cal.Label = sanitizer.NormalizeLabel(cal.Label)
	cal.TimeZone = sanitizer.SanitizeTimeZone(cal.TimeZone)
}

func (s *calendarService) applyDefaults(cal *model.Calendar) {
	if cal.StepMinutes == 0 {
		cal.StepMinutes = s.cfg.DefaultStepMinutes
	}
	if cal.TimeZone == "" {
		cal.TimeZone = s.cfg.DefaultTimeZone
	}
	if cal.MaxAdvanceDays == 0 {
		cal.MaxAdvanceDays = s.cfg.DefaultMaxAdvanceDays
	}
	if cal.Weekly == nil {
		cal.Weekly = model.WeeklySchedule{}
	}
}
