package service

import (
	"context"
	"errors"
	"time"

	holderrors "procal/internal/holds/errors"
	"procal/internal/holds/repository"
	"procal/internal/holds/validator"
	"procal/pkg/config"
	apperrors "procal/pkg/errors"
	"procal/pkg/events"
	"procal/pkg/model"
	"procal/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/mongo"
)

// CreateHoldInput is the request to claim one slot during checkout.
type CreateHoldInput struct {
	ProID      string
	UserID     string
	SlotStart  time.Time
	SlotEnd    time.Time
	TTLSeconds int
}

type HoldService interface {
	CreateHold(ctx context.Context, in CreateHoldInput) (*model.SlotLock, error)
	ReleaseHold(ctx context.Context, proID string, slotStart time.Time) error
	ConvertToBooking(ctx context.Context, proID string, slotStart time.Time, userID string) (*model.Booking, error)
}

type holdService struct {
	repo      repository.HoldRepository
	validator *validator.HoldValidator
	publisher *events.BookingPublisher
	cfg       *config.Config
	now       func() time.Time
}

func NewHoldService(
	repo repository.HoldRepository,
	validator *validator.HoldValidator,
	publisher *events.BookingPublisher,
	cfg *config.Config,
) HoldService {
	return &holdService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateHold claims a slot for the checkout flow. The overlap re-check and
// the insert run in one transaction, so two concurrent claims cannot both
// pass the check; the deterministic lock _id backstops the race even if the
// deployment lacks transactions.
func (s *holdService) CreateHold(ctx context.Context, in CreateHoldInput) (*model.SlotLock, error) {
	in.ProID = sanitizer.SanitizeID(in.ProID)
	in.UserID = sanitizer.SanitizeID(in.UserID)

	ttl, err := s.resolveTTL(in.TTLSeconds)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	lock := &model.SlotLock{
		ID:        model.LockID(in.ProID, in.SlotStart),
		ProID:     in.ProID,
		UserID:    in.UserID,
		SlotStart: in.SlotStart,
		SlotEnd:   in.SlotEnd,
		TTL:       now.Add(ttl),
		CreatedAt: now,
	}

	if err := s.validator.ValidateLock(lock); err != nil {
		s.cfg.Log.Warn("Slot lock validation failed",
			"pro_id", in.ProID,
			"user_id", in.UserID,
			"error", err,
		)
		return nil, apperrors.Validation("Hold validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	if !in.SlotStart.After(now) {
		return nil, apperrors.InvalidInput("slot_start must be in the future")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		bookings, err := s.repo.FindActiveBookingOverlaps(sessCtx, lock.ProID, lock.SlotStart, lock.SlotEnd)
		if err != nil {
			return apperrors.Internal("Failed to check bookings for conflicts", err)
		}
		if len(bookings) > 0 {
			return apperrors.SlotBooked()
		}

		locks, err := s.repo.FindLiveLockOverlaps(sessCtx, lock.ProID, lock.SlotStart, lock.SlotEnd, now)
		if err != nil {
			return apperrors.Internal("Failed to check locks for conflicts", err)
		}
		if len(locks) > 0 {
			return apperrors.SlotLocked()
		}

		// An expired lock may still occupy this _id until the reaper
		// passes; clear it so the insert cannot trip over a corpse.
		if existing, err := s.repo.FindLockByID(sessCtx, lock.ID); err == nil && existing.Expired(now) {
			if _, err := s.repo.DeleteLock(sessCtx, lock.ID); err != nil {
				return apperrors.Internal("Failed to clear expired lock", err)
			}
		}

		if err := s.repo.InsertLock(sessCtx, lock); err != nil {
			if errors.Is(err, holderrors.ErrDuplicateLock) {
				return apperrors.SlotLocked()
			}
			return apperrors.Internal("Failed to insert slot lock", err)
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeSlotLocked) || apperrors.HasCode(err, apperrors.CodeSlotBooked) {
			s.cfg.Log.Info("Hold rejected due to slot conflict",
				"pro_id", lock.ProID,
				"slot_start", lock.SlotStart,
				"code", apperrors.AsAppError(err).Code,
			)
		} else {
			s.cfg.Log.Error("Failed to create hold",
				"pro_id", lock.ProID,
				"slot_start", lock.SlotStart,
				"error", err,
			)
		}
		return nil, err
	}

	s.cfg.Log.Info("Hold created successfully",
		"id", lock.ID,
		"pro_id", lock.ProID,
		"user_id", lock.UserID,
		"expires_at", lock.TTL,
	)
	return lock, nil
}

// ReleaseHold drops the claim on a slot. Releasing a hold that does not
// exist (expired, reaped, never created) succeeds: the desired end state
// already holds.
func (s *holdService) ReleaseHold(ctx context.Context, proID string, slotStart time.Time) error {
	proID = sanitizer.SanitizeID(proID)
	if proID == "" {
		return apperrors.InvalidInput("Provider ID cannot be empty")
	}

	id := model.LockID(proID, slotStart)
	deleted, err := s.repo.DeleteLock(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to release hold",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to release hold", err)
	}

	s.cfg.Log.Info("Hold released", "id", id, "existed", deleted)
	return nil
}

// ConvertToBooking atomically swaps a live hold for a pending_payment
// booking. An absent or expired hold converts to nothing: the caller must
// re-claim the slot first.
func (s *holdService) ConvertToBooking(ctx context.Context, proID string, slotStart time.Time, userID string) (*model.Booking, error) {
	proID = sanitizer.SanitizeID(proID)
	userID = sanitizer.SanitizeID(userID)
	if proID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	id := model.LockID(proID, slotStart)
	now := s.now().UTC().Truncate(time.Millisecond)
	var booking *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		lock, err := s.repo.FindLockByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, holderrors.ErrLockNotFound) {
				return apperrors.NotFoundWithID("Hold", id)
			}
			return apperrors.Internal("Failed to load hold", err)
		}
		// A hold only converts for the user who placed it; anyone else
		// sees the same answer as no hold at all.
		if lock.Expired(now) || lock.UserID != userID {
			return apperrors.NotFoundWithID("Hold", id)
		}

		if _, err := s.repo.DeleteLock(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to remove hold", err)
		}

		booking = &model.Booking{
			ProID:     lock.ProID,
			UserID:    lock.UserID,
			SlotStart: lock.SlotStart,
			SlotEnd:   lock.SlotEnd,
			Status:    model.StatusPendingPayment,
		}
		if err := s.repo.InsertBooking(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to insert booking", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.HasCode(err, apperrors.CodeNotFound) {
			s.cfg.Log.Error("Failed to convert hold to booking",
				"id", id,
				"error", err,
			)
		}
		return nil, err
	}

	s.cfg.Log.Info("Hold converted to booking",
		"hold_id", id,
		"booking_id", booking.ID,
		"pro_id", booking.ProID,
		"user_id", booking.UserID,
	)
	s.publisher.Publish(ctx, events.EventBookingCreated, booking)
	return booking, nil
}

func (s *holdService) resolveTTL(ttlSeconds int) (time.Duration, error) {
	if ttlSeconds == 0 {
		return s.cfg.DefaultHoldTTL, nil
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if ttl < s.cfg.MinHoldTTL || ttl > s.cfg.MaxHoldTTL {
		return 0, apperrors.InvalidInput("ttl_sec out of range")
	}
	return ttl, nil
}
