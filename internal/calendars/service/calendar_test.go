package service

import (
	"context"
	"testing"

	calendarerrors "procal/internal/calendars/errors"
	"procal/internal/calendars/validator"
	"procal/pkg/config"
	mongotx "procal/pkg/db/mongo"
	apperrors "procal/pkg/errors"
	"procal/pkg/logger"
	"procal/pkg/model"
)

type mockCalendarRepository struct {
	upsertFunc          func(ctx context.Context, cal *model.Calendar) error
	findByProIDFunc     func(ctx context.Context, proID string) (*model.Calendar, error)
	upsertExceptionFunc func(ctx context.Context, exc *model.CalendarException) error
	deleteExceptionFunc func(ctx context.Context, proID string, date string) error
	findExceptionsFunc  func(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error)
}

func (m *mockCalendarRepository) Upsert(ctx context.Context, cal *model.Calendar) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, cal)
	}
	return nil
}

func (m *mockCalendarRepository) FindByProID(ctx context.Context, proID string) (*model.Calendar, error) {
	if m.findByProIDFunc != nil {
		return m.findByProIDFunc(ctx, proID)
	}
	return nil, calendarerrors.ErrNotFound
}

func (m *mockCalendarRepository) UpsertException(ctx context.Context, exc *model.CalendarException) error {
	if m.upsertExceptionFunc != nil {
		return m.upsertExceptionFunc(ctx, exc)
	}
	return nil
}

func (m *mockCalendarRepository) DeleteException(ctx context.Context, proID string, date string) error {
	if m.deleteExceptionFunc != nil {
		return m.deleteExceptionFunc(ctx, proID, date)
	}
	return nil
}

func (m *mockCalendarRepository) FindExceptions(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error) {
	if m.findExceptionsFunc != nil {
		return m.findExceptionsFunc(ctx, proID, fromDate, toDate)
	}
	return nil, nil
}

func (m *mockCalendarRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockCalendarRepository) CalendarService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		DefaultStepMinutes:    30,
		DefaultTimeZone:       "UTC",
		DefaultMaxAdvanceDays: 60,
	}
	return NewCalendarService(repo, validator.NewCalendarValidator(cfg.Log), cfg)
}

func TestUpsert_AppliesDefaults(t *testing.T) {
	var saved *model.Calendar
	repo := &mockCalendarRepository{
		upsertFunc: func(ctx context.Context, cal *model.Calendar) error {
			saved = cal
			return nil
		},
	}
	svc := newTestService(repo)

	cal := &model.Calendar{ProID: "pro-1"}
	if err := svc.Upsert(context.Background(), cal); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected the calendar to be saved")
	}
	if saved.StepMinutes != 30 {
		t.Errorf("step_min = %d, want the default 30", saved.StepMinutes)
	}
	if saved.TimeZone != "UTC" {
		t.Errorf("time_zone = %s, want the default UTC", saved.TimeZone)
	}
	if saved.MaxAdvanceDays != 60 {
		t.Errorf("max_advance_days = %d, want the default 60", saved.MaxAdvanceDays)
	}
	if saved.Weekly == nil {
		t.Error("weekly schedule must default to an empty map, not nil")
	}
}

func TestUpsert_SanitizesProID(t *testing.T) {
	var saved *model.Calendar
	repo := &mockCalendarRepository{
		upsertFunc: func(ctx context.Context, cal *model.Calendar) error {
			saved = cal
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Upsert(context.Background(), &model.Calendar{ProID: "  Pro-1  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ProID != "pro-1" {
		t.Errorf("pro_id = %q, want %q", saved.ProID, "pro-1")
	}
}

func TestUpsert_RejectsInvalidCalendar(t *testing.T) {
	svc := newTestService(&mockCalendarRepository{})

	cal := &model.Calendar{
		ProID:    "pro-1",
		TimeZone: "UTC",
		Weekly: model.WeeklySchedule{
			model.Monday: {{Start: "12:00", End: "09:00"}},
		},
	}
	err := svc.Upsert(context.Background(), cal)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestGetByProID_NotFound(t *testing.T) {
	svc := newTestService(&mockCalendarRepository{})

	_, err := svc.GetByProID(context.Background(), "pro-1")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPutException_RequiresCalendar(t *testing.T) {
	svc := newTestService(&mockCalendarRepository{})

	exc := &model.CalendarException{ProID: "pro-1", Date: "2025-06-02", Closed: true}
	err := svc.PutException(context.Background(), exc)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for an exception without a calendar, got %v", err)
	}
}

func TestPutException_SavesReplacementWindows(t *testing.T) {
	var saved *model.CalendarException
	repo := &mockCalendarRepository{
		findByProIDFunc: func(ctx context.Context, proID string) (*model.Calendar, error) {
			return &model.Calendar{ProID: proID, TimeZone: "UTC", StepMinutes: 30, MaxAdvanceDays: 60}, nil
		},
		upsertExceptionFunc: func(ctx context.Context, exc *model.CalendarException) error {
			saved = exc
			return nil
		},
	}
	svc := newTestService(repo)

	exc := &model.CalendarException{
		ProID:   "pro-1",
		Date:    "2025-06-02",
		Windows: []model.Window{{Start: "14:00", End: "15:00"}},
	}
	if err := svc.PutException(context.Background(), exc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil || len(saved.Windows) != 1 {
		t.Fatal("expected the exception windows to be saved")
	}
}

func TestDeleteException_NotFound(t *testing.T) {
	repo := &mockCalendarRepository{
		deleteExceptionFunc: func(ctx context.Context, proID string, date string) error {
			return calendarerrors.ErrExceptionNotFound
		},
	}
	svc := newTestService(repo)

	err := svc.DeleteException(context.Background(), "pro-1", "2025-06-02")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDeleteException_RejectsBadDate(t *testing.T) {
	svc := newTestService(&mockCalendarRepository{})

	err := svc.DeleteException(context.Background(), "pro-1", "June 2nd")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
