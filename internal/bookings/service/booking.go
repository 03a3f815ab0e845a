package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "procal/internal/bookings/errors"
	"procal/internal/bookings/repository"
	"procal/pkg/config"
	apperrors "procal/pkg/errors"
	"procal/pkg/events"
	"procal/pkg/model"
	"procal/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// ListQuery filters a provider's booking list. From/To select bookings
// overlapping [From, To); Status narrows to one lifecycle state.
type ListQuery struct {
	ProID  string
	From   *time.Time
	To     *time.Time
	Status string
	Limit  int
	Offset int64
}

type BookingService interface {
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, q ListQuery) ([]*model.Booking, int64, error)
	Confirm(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, refundAmount, penaltyAmount int64) (*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	publisher *events.BookingPublisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	publisher *events.BookingPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, id)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, q ListQuery) ([]*model.Booking, int64, error) {
	q.ProID = sanitizer.SanitizeID(q.ProID)
	if q.ProID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID cannot be empty")
	}
	if q.Status != "" && !validStatus(q.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status: %s", q.Status))
	}
	if q.From != nil && q.To != nil && !q.To.After(*q.From) {
		return nil, 0, apperrors.InvalidInput("to must be after from")
	}
	q.Limit = config.NormalizePaginationLimit(q.Limit)
	q.Offset = config.NormalizeOffset(q.Offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByPro(ctx, q.ProID, q.From, q.To, q.Status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "pro_id", q.ProID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByPro(ctx, q.ProID, q.From, q.To, q.Status, q.Limit, q.Offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"pro_id", q.ProID,
				"limit", q.Limit,
				"offset", q.Offset,
				"error", errFind,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Confirm moves a pending_payment booking to confirmed once the payment
// collaborator reports success.
func (s *bookingService) Confirm(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, model.StatusConfirmed, nil)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.EventBookingConfirmed, booking)
	return booking, nil
}

// Cancel frees the booking's slot. Cancelling an already-cancelled booking
// succeeds without touching the audit fields: the desired end state holds.
func (s *bookingService) Cancel(ctx context.Context, id string, refundAmount, penaltyAmount int64) (*model.Booking, error) {
	if refundAmount < 0 || penaltyAmount < 0 {
		return nil, apperrors.InvalidInput("refund_amount and penalty_amount cannot be negative")
	}

	// mutate only runs on a real transition, so a repeated cancel emits no
	// duplicate event.
	var transitioned bool
	booking, err := s.transition(ctx, id, model.StatusCancelled, func(b *model.Booking) {
		transitioned = true
		b.RefundAmount = refundAmount
		b.PenaltyAmount = penaltyAmount
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		s.publisher.Publish(ctx, events.EventBookingCancelled, booking)
	}
	return booking, nil
}

// Complete marks a confirmed booking as delivered after the service time
// has elapsed.
func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.transition(ctx, id, model.StatusCompleted, nil)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, events.EventBookingCompleted, booking)
	return booking, nil
}

// transition applies the status machine inside a transaction so the
// read-check-write cannot interleave with a concurrent transition on the
// same booking. mutate, when set, adjusts the booking before the write.
func (s *bookingService) transition(ctx context.Context, id string, next string, mutate func(*model.Booking)) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var booking *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		found, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return translateRepoError(err, id)
		}

		// Re-cancelling is a no-op, not a conflict.
		if next == model.StatusCancelled && found.Status == model.StatusCancelled {
			booking = found
			return nil
		}
		if !found.CanTransition(next) {
			return apperrors.Conflict(fmt.Sprintf(
				"Cannot move booking from %s to %s", found.Status, next,
			))
		}

		found.Status = next
		if mutate != nil {
			mutate(found)
		}
		if err := s.repo.UpdateStatus(sessCtx, found); err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		booking = found
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			s.cfg.Log.Info("Booking transition rejected", "id", id, "next", next, "error", err)
		} else if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			s.cfg.Log.Error("Failed to transition booking", "id", id, "next", next, "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Booking transitioned",
		"id", booking.ID,
		"pro_id", booking.ProID,
		"status", booking.Status,
	)
	return booking, nil
}

func translateRepoError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func validStatus(status string) bool {
	switch status {
	case model.StatusPendingPayment, model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted:
		return true
	}
	return false
}
