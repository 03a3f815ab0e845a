package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "procal/internal/bookings/errors"
	"procal/pkg/config"
	mongotx "procal/pkg/db/mongo"
	apperrors "procal/pkg/errors"
	"procal/pkg/logger"
	"procal/pkg/model"
)

type mockBookingRepository struct {
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	findByProFunc    func(ctx context.Context, proID string, from, to *time.Time, status string, limit int, offset int64) ([]*model.Booking, error)
	countByProFunc   func(ctx context.Context, proID string, from, to *time.Time, status string) (int64, error)
	updateStatusFunc func(ctx context.Context, booking *model.Booking) error
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByPro(ctx context.Context, proID string, from, to *time.Time, status string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByProFunc != nil {
		return m.findByProFunc(ctx, proID, from, to, status, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepository) CountByPro(ctx context.Context, proID string, from, to *time.Time, status string) (int64, error) {
	if m.countByProFunc != nil {
		return m.countByProFunc(ctx, proID, from, to, status)
	}
	return 0, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, booking *model.Booking) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockBookingRepository) *bookingService {
	return &bookingService{
		repo:      repo,
		publisher: nil,
		cfg: &config.Config{
			Log: logger.New(logger.Config{
				Level:   "error",
				Format:  logger.JSON,
				Service: "test",
			}),
		},
	}
}

const testBookingID = "64a000000000000000000001"

func storedBooking(status string) *model.Booking {
	start := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	return &model.Booking{
		ID:        testBookingID,
		ProID:     "pro-1",
		UserID:    "user-1",
		SlotStart: start,
		SlotEnd:   start.Add(30 * time.Minute),
		Status:    status,
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepository{})

	_, err := svc.GetByID(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrInvalidID
		},
	}
	svc := newTestService(repo)

	_, err := svc.GetByID(context.Background(), "not-an-object-id")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestList_ReturnsBookingsAndTotal(t *testing.T) {
	repo := &mockBookingRepository{
		findByProFunc: func(ctx context.Context, proID string, from, to *time.Time, status string, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{storedBooking(model.StatusConfirmed)}, nil
		},
		countByProFunc: func(ctx context.Context, proID string, from, to *time.Time, status string) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(repo)

	bookings, total, err := svc.List(context.Background(), ListQuery{ProID: "pro-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("len(bookings) = %d, want 1", len(bookings))
	}
	if total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
}

func TestList_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepository{})

	_, _, err := svc.List(context.Background(), ListQuery{ProID: "pro-1", Status: "paused"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestConfirm_PendingBecomesConfirmed(t *testing.T) {
	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPendingPayment), nil
		},
		updateStatusFunc: func(ctx context.Context, booking *model.Booking) error {
			updated = booking
			return nil
		},
	}
	svc := newTestService(repo)

	booking, err := svc.Confirm(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", booking.Status)
	}
	if updated == nil || updated.Status != model.StatusConfirmed {
		t.Error("expected the confirmed status to be persisted")
	}
}

func TestConfirm_AlreadyConfirmedConflicts(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed), nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Confirm(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestCancel_ConfirmedBecomesCancelledWithAudit(t *testing.T) {
	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed), nil
		},
		updateStatusFunc: func(ctx context.Context, booking *model.Booking) error {
			updated = booking
			return nil
		},
	}
	svc := newTestService(repo)

	booking, err := svc.Cancel(context.Background(), testBookingID, 2500, 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("status = %s, want cancelled", booking.Status)
	}
	if updated.RefundAmount != 2500 || updated.PenaltyAmount != 500 {
		t.Errorf("audit fields = (%d, %d), want (2500, 500)", updated.RefundAmount, updated.PenaltyAmount)
	}
}

func TestCancel_AlreadyCancelledIsIdempotent(t *testing.T) {
	existing := storedBooking(model.StatusCancelled)
	existing.RefundAmount = 1000

	var updateCalls int
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return existing, nil
		},
		updateStatusFunc: func(ctx context.Context, booking *model.Booking) error {
			updateCalls++
			return nil
		},
	}
	svc := newTestService(repo)

	booking, err := svc.Cancel(context.Background(), testBookingID, 9999, 9999)
	if err != nil {
		t.Fatalf("repeated cancel should succeed, got %v", err)
	}
	if updateCalls != 0 {
		t.Errorf("expected no status write on repeated cancel, got %d", updateCalls)
	}
	if booking.RefundAmount != 1000 {
		t.Errorf("refund_amount = %d, want the original 1000 untouched", booking.RefundAmount)
	}
}

func TestCancel_NegativeAmountsRejected(t *testing.T) {
	svc := newTestService(&mockBookingRepository{})

	_, err := svc.Cancel(context.Background(), testBookingID, -1, 0)
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestComplete_ConfirmedBecomesCompleted(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed), nil
		},
	}
	svc := newTestService(repo)

	booking, err := svc.Complete(context.Background(), testBookingID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", booking.Status)
	}
}

func TestComplete_PendingConflicts(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPendingPayment), nil
		},
	}
	svc := newTestService(repo)

	_, err := svc.Complete(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}
