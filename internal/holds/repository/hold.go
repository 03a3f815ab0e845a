package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	holderrors "procal/internal/holds/errors"
	"procal/pkg/config"
	mongotx "procal/pkg/db/mongo"
	"procal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LockCollectionName    = "Slot_locks"
	BookingCollectionName = "Bookings"
)

type mongoHoldRepository struct {
	cfg       *config.Config
	db        *mongo.Database
	locks     *mongo.Collection
	bookings  *mongo.Collection
	txManager mongotx.TransactionManager
}

type HoldRepository interface {
	InsertLock(ctx context.Context, lock *model.SlotLock) error
	FindLockByID(ctx context.Context, id string) (*model.SlotLock, error)
	DeleteLock(ctx context.Context, id string) (bool, error)
	FindLiveLockOverlaps(ctx context.Context, proID string, start, end time.Time, now time.Time) ([]*model.SlotLock, error)
	FindActiveBookingOverlaps(ctx context.Context, proID string, start, end time.Time) ([]*model.Booking, error)
	InsertBooking(ctx context.Context, booking *model.Booking) error
	DeleteExpiredLocks(ctx context.Context, now time.Time, limit int) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoHoldRepository(cfg *config.Config) HoldRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHoldRepository{
		cfg:       cfg,
		db:        db,
		locks:     db.Collection(LockCollectionName),
		bookings:  db.Collection(BookingCollectionName),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoHoldRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining > timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoHoldRepository) InsertLock(ctx context.Context, lock *model.SlotLock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.locks.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", holderrors.ErrDuplicateLock, lock.ID)
		}
		return fmt.Errorf("failed to insert slot lock: %w", err)
	}
	return nil
}

func (r *mongoHoldRepository) FindLockByID(ctx context.Context, id string) (*model.SlotLock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var lock model.SlotLock
	err := r.locks.FindOne(ctx, bson.M{"_id": id}).Decode(&lock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", holderrors.ErrLockNotFound, id)
		}
		return nil, fmt.Errorf("failed to find slot lock: %w", err)
	}

	return &lock, nil
}

func (r *mongoHoldRepository) DeleteLock(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.locks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete slot lock: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoHoldRepository) FindLiveLockOverlaps(ctx context.Context, proID string, start, end time.Time, now time.Time) ([]*model.SlotLock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"pro_id":     proID,
		"ttl":        bson.M{"$gt": now},
		"slot_start": bson.M{"$lt": end},
		"slot_end":   bson.M{"$gt": start},
	}

	cursor, err := r.locks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping locks: %w", err)
	}
	defer cursor.Close(ctx)

	var locks []*model.SlotLock
	if err = cursor.All(ctx, &locks); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping locks: %w", err)
	}
	return locks, nil
}

func (r *mongoHoldRepository) FindActiveBookingOverlaps(ctx context.Context, proID string, start, end time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"pro_id":     proID,
		"status":     bson.M{"$ne": model.StatusCancelled},
		"slot_start": bson.M{"$lt": end},
		"slot_end":   bson.M{"$gt": start},
	}

	cursor, err := r.bookings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode overlapping bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoHoldRepository) InsertBooking(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	doc := bson.M{
		"pro_id":     booking.ProID,
		"user_id":    booking.UserID,
		"slot_start": booking.SlotStart,
		"slot_end":   booking.SlotEnd,
		"status":     booking.Status,
		"created_at": booking.CreatedAt,
	}

	result, err := r.bookings.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

// DeleteExpiredLocks removes at most limit expired locks. The two-step
// select-then-delete keeps each batch bounded; anything that expires
// between the steps is caught by the next sweep.
func (r *mongoHoldRepository) DeleteExpiredLocks(ctx context.Context, now time.Time, limit int) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 1})

	cursor, err := r.locks.Find(ctx, bson.M{"ttl": bson.M{"$lte": now}}, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired locks: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return 0, fmt.Errorf("failed to decode expired locks: %w", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	result, err := r.locks.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired locks: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoHoldRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
