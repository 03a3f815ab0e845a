package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"procal/pkg/config"
	"procal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName    = "Slot_locks"
	BookingCollectionName = "Bookings"
)

// OccupancyRepository reads the intervals currently occupying a provider's
// time: live slot locks and non-cancelled bookings. The read is advisory;
// the hold write path re-checks inside its transaction.
type OccupancyRepository interface {
	FindIntervals(ctx context.Context, proID string, from, to time.Time, now time.Time) ([]model.Interval, error)
}

type mongoOccupancyRepository struct {
	cfg      *config.Config
	locks    *mongo.Collection
	bookings *mongo.Collection
}

func NewMongoOccupancyRepository(cfg *config.Config) OccupancyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOccupancyRepository{
		cfg:      cfg,
		locks:    db.Collection(LockCollectionName),
		bookings: db.Collection(BookingCollectionName),
	}
}

// FindIntervals loads both occupancy sources in parallel under one shared
// deadline. A lock whose ttl has passed is excluded even if the reaper has
// not deleted it yet.
func (r *mongoOccupancyRepository) FindIntervals(ctx context.Context, proID string, from, to time.Time, now time.Time) ([]model.Interval, error) {
	sharedCtx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var lockIntervals, bookingIntervals []model.Interval
	var errLocks, errBookings error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		lockIntervals, errLocks = r.findLockIntervals(sharedCtx, proID, from, to, now)
	}()

	go func() {
		defer wg.Done()
		bookingIntervals, errBookings = r.findBookingIntervals(sharedCtx, proID, from, to)
	}()

	wg.Wait()
	if errLocks != nil {
		return nil, errLocks
	}
	if errBookings != nil {
		return nil, errBookings
	}

	return append(bookingIntervals, lockIntervals...), nil
}

func (r *mongoOccupancyRepository) findLockIntervals(ctx context.Context, proID string, from, to time.Time, now time.Time) ([]model.Interval, error) {
	filter := bson.M{
		"pro_id":     proID,
		"ttl":        bson.M{"$gt": now},
		"slot_start": bson.M{"$lt": to},
		"slot_end":   bson.M{"$gt": from},
	}

	cursor, err := r.locks.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query slot locks: %w", err)
	}
	defer cursor.Close(ctx)

	var locks []*model.SlotLock
	if err = cursor.All(ctx, &locks); err != nil {
		return nil, fmt.Errorf("failed to decode slot locks: %w", err)
	}

	intervals := make([]model.Interval, 0, len(locks))
	for _, l := range locks {
		intervals = append(intervals, model.Interval{
			Start: l.SlotStart,
			End:   l.SlotEnd,
			Kind:  model.OccupiedByLock,
		})
	}
	return intervals, nil
}

func (r *mongoOccupancyRepository) findBookingIntervals(ctx context.Context, proID string, from, to time.Time) ([]model.Interval, error) {
	filter := bson.M{
		"pro_id":     proID,
		"status":     bson.M{"$ne": model.StatusCancelled},
		"slot_start": bson.M{"$lt": to},
		"slot_end":   bson.M{"$gt": from},
	}

	cursor, err := r.bookings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	intervals := make([]model.Interval, 0, len(bookings))
	for _, b := range bookings {
		intervals = append(intervals, model.Interval{
			Start: b.SlotStart,
			End:   b.SlotEnd,
			Kind:  model.OccupiedByBooking,
		})
	}
	return intervals, nil
}
