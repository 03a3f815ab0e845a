package service

import (
	"context"
	"testing"
	"time"

	calendarerrors "procal/internal/calendars/errors"
	"procal/pkg/config"
	mongotx "procal/pkg/db/mongo"
	apperrors "procal/pkg/errors"
	"procal/pkg/logger"
	"procal/pkg/model"
)

type mockCalendarRepository struct {
	findByProIDFunc    func(ctx context.Context, proID string) (*model.Calendar, error)
	findExceptionsFunc func(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error)
}

func (m *mockCalendarRepository) Upsert(ctx context.Context, cal *model.Calendar) error { return nil }

func (m *mockCalendarRepository) FindByProID(ctx context.Context, proID string) (*model.Calendar, error) {
	if m.findByProIDFunc != nil {
		return m.findByProIDFunc(ctx, proID)
	}
	return nil, calendarerrors.ErrNotFound
}

func (m *mockCalendarRepository) UpsertException(ctx context.Context, exc *model.CalendarException) error {
	return nil
}

func (m *mockCalendarRepository) DeleteException(ctx context.Context, proID string, date string) error {
	return nil
}

func (m *mockCalendarRepository) FindExceptions(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error) {
	if m.findExceptionsFunc != nil {
		return m.findExceptionsFunc(ctx, proID, fromDate, toDate)
	}
	return nil, nil
}

func (m *mockCalendarRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockOccupancyRepository struct {
	findIntervalsFunc func(ctx context.Context, proID string, from, to time.Time, now time.Time) ([]model.Interval, error)
}

func (m *mockOccupancyRepository) FindIntervals(ctx context.Context, proID string, from, to time.Time, now time.Time) ([]model.Interval, error) {
	if m.findIntervalsFunc != nil {
		return m.findIntervalsFunc(ctx, proID, from, to, now)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
		ReadTimeout:  5 * time.Second,
		MaxRangeDays: 14,
	}
}

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func testCalendar() *model.Calendar {
	return &model.Calendar{
		ProID:          "pro-1",
		TimeZone:       "Europe/Rome",
		StepMinutes:    30,
		MaxAdvanceDays: 60,
		Weekly: model.WeeklySchedule{
			model.Monday: {{Start: "09:00", End: "12:00"}},
		},
	}
}

func newTestService(cal *model.Calendar, intervals []model.Interval, now time.Time) *availabilityService {
	return &availabilityService{
		calendars: &mockCalendarRepository{
			findByProIDFunc: func(ctx context.Context, proID string) (*model.Calendar, error) {
				if cal == nil {
					return nil, calendarerrors.ErrNotFound
				}
				return cal, nil
			},
		},
		occupancy: &mockOccupancyRepository{
			findIntervalsFunc: func(ctx context.Context, proID string, from, to time.Time, n time.Time) ([]model.Interval, error) {
				return intervals, nil
			},
		},
		cfg: testConfig(),
		now: func() time.Time { return now },
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetAvailability_WeeklyTemplate(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc) // Sunday
	svc := newTestService(testCalendar(), nil, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got.Days))
	}
	day := got.Days[0]
	if day.Date != "2025-06-02" {
		t.Errorf("day date = %s, want 2025-06-02", day.Date)
	}
	if len(day.Slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(day.Slots))
	}
	for i, s := range day.Slots {
		if s.Status != model.SlotFree {
			t.Errorf("slot %d status = %s, want free", i, s.Status)
		}
	}
	want := time.Date(2025, time.June, 2, 9, 0, 0, 0, loc)
	if !day.Slots[0].Start.Equal(want) {
		t.Errorf("first slot = %v, want %v", day.Slots[0].Start, want)
	}
}

func TestGetAvailability_BookingMarksSlot(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	booked := model.Interval{
		Start: time.Date(2025, time.June, 2, 10, 0, 0, 0, loc),
		End:   time.Date(2025, time.June, 2, 10, 30, 0, 0, loc),
		Kind:  model.OccupiedByBooking,
	}
	svc := newTestService(testCalendar(), []model.Interval{booked}, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots := got.Days[0].Slots
	if len(slots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(slots))
	}
	var bookedCount int
	for _, s := range slots {
		if s.Status == model.SlotBooked {
			bookedCount++
			if !s.Start.Equal(booked.Start) {
				t.Errorf("booked slot start = %v, want %v", s.Start, booked.Start)
			}
		}
	}
	if bookedCount != 1 {
		t.Errorf("expected exactly 1 booked slot, got %d", bookedCount)
	}
}

func TestGetAvailability_BookingOutranksLock(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	slotStart := time.Date(2025, time.June, 2, 9, 0, 0, 0, loc)
	intervals := []model.Interval{
		{Start: slotStart, End: slotStart.Add(30 * time.Minute), Kind: model.OccupiedByLock},
		{Start: slotStart, End: slotStart.Add(30 * time.Minute), Kind: model.OccupiedByBooking},
	}
	svc := newTestService(testCalendar(), intervals, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Days[0].Slots[0].Status != model.SlotBooked {
		t.Errorf("status = %s, want booked", got.Days[0].Slots[0].Status)
	}
}

func TestGetAvailability_HalfOpenBoundaryDoesNotMark(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	// Booking ends exactly when the 10:00 slot begins.
	intervals := []model.Interval{{
		Start: time.Date(2025, time.June, 2, 9, 30, 0, 0, loc),
		End:   time.Date(2025, time.June, 2, 10, 0, 0, 0, loc),
		Kind:  model.OccupiedByBooking,
	}}
	svc := newTestService(testCalendar(), intervals, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, s := range got.Days[0].Slots {
		if s.Start.Equal(time.Date(2025, time.June, 2, 10, 0, 0, 0, loc)) && s.Status != model.SlotFree {
			t.Errorf("10:00 slot status = %s, want free (half-open boundary)", s.Status)
		}
	}
}

func TestGetAvailability_ClosedException(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	svc := newTestService(testCalendar(), nil, now)
	svc.calendars = &mockCalendarRepository{
		findByProIDFunc: func(ctx context.Context, proID string) (*model.Calendar, error) {
			return testCalendar(), nil
		},
		findExceptionsFunc: func(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error) {
			return []*model.CalendarException{
				{ProID: "pro-1", Date: "2025-06-02", Closed: true},
			}, nil
		},
	}

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days[0].Slots) != 0 {
		t.Errorf("expected 0 slots on a closed date, got %d", len(got.Days[0].Slots))
	}
}

func TestGetAvailability_ExceptionReplacesTemplate(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	svc := newTestService(testCalendar(), nil, now)
	svc.calendars = &mockCalendarRepository{
		findByProIDFunc: func(ctx context.Context, proID string) (*model.Calendar, error) {
			return testCalendar(), nil
		},
		findExceptionsFunc: func(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error) {
			return []*model.CalendarException{
				{ProID: "pro-1", Date: "2025-06-02", Windows: []model.Window{{Start: "14:00", End: "15:00"}}},
			}, nil
		},
	}

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots := got.Days[0].Slots
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots from the replacement window, got %d", len(slots))
	}
	want := time.Date(2025, time.June, 2, 14, 0, 0, 0, loc)
	if !slots[0].Start.Equal(want) {
		t.Errorf("first slot = %v, want %v", slots[0].Start, want)
	}
}

func TestGetAvailability_RangeTooLarge(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	svc := newTestService(testCalendar(), nil, now)

	from := date(2025, time.June, 2)
	to := date(2025, time.June, 21) // 20 days inclusive

	_, err := svc.GetAvailability(context.Background(), "pro-1", from, to, 0)
	if !apperrors.HasCode(err, apperrors.CodeRangeTooLarge) {
		t.Fatalf("expected RANGE_TOO_LARGE, got %v", err)
	}
}

func TestGetAvailability_NoCalendar(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	svc := newTestService(nil, nil, now)

	monday := date(2025, time.June, 2)
	_, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetAvailability_HorizonClampsRange(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	cal := testCalendar()
	cal.MaxAdvanceDays = 3 // horizon ends 2025-06-04
	svc := newTestService(cal, nil, now)

	from := date(2025, time.June, 2)
	to := date(2025, time.June, 10)
	got, err := svc.GetAvailability(context.Background(), "pro-1", from, to, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days) != 3 {
		t.Fatalf("expected 3 days inside the horizon, got %d", len(got.Days))
	}
	if last := got.Days[len(got.Days)-1].Date; last != "2025-06-04" {
		t.Errorf("last day = %s, want 2025-06-04", last)
	}
}

func TestGetAvailability_EntirelyBeyondHorizon(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	cal := testCalendar()
	cal.MaxAdvanceDays = 3
	svc := newTestService(cal, nil, now)

	from := date(2025, time.June, 10)
	to := date(2025, time.June, 12)
	got, err := svc.GetAvailability(context.Background(), "pro-1", from, to, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days) != 0 {
		t.Errorf("expected no days beyond the horizon, got %d", len(got.Days))
	}
}

func TestGetAvailability_PastSlotsExcluded(t *testing.T) {
	loc := rome(t)
	// Mid-morning on the requested Monday itself.
	now := time.Date(2025, time.June, 2, 10, 15, 0, 0, loc)
	svc := newTestService(testCalendar(), nil, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slots := got.Days[0].Slots
	// 09:00..12:00 has 6 slots; 09:00, 09:30, 10:00 already started.
	if len(slots) != 3 {
		t.Fatalf("expected 3 future slots, got %d", len(slots))
	}
	want := time.Date(2025, time.June, 2, 10, 30, 0, 0, loc)
	if !slots[0].Start.Equal(want) {
		t.Errorf("first future slot = %v, want %v", slots[0].Start, want)
	}
}

func TestGetAvailability_StepOverride(t *testing.T) {
	loc := rome(t)
	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, loc)
	svc := newTestService(testCalendar(), nil, now)

	monday := date(2025, time.June, 2)
	got, err := svc.GetAvailability(context.Background(), "pro-1", monday, monday, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Days[0].Slots) != 3 {
		t.Fatalf("expected 3 hour-wide slots, got %d", len(got.Days[0].Slots))
	}
	if got.StepMin != 60 {
		t.Errorf("step_min = %d, want 60", got.StepMin)
	}

	_, err = svc.GetAvailability(context.Background(), "pro-1", monday, monday, 3)
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for out-of-range step, got %v", err)
	}
}
