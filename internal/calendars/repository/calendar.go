package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	calendarerrors "procal/internal/calendars/errors"
	"procal/pkg/config"
	mongotx "procal/pkg/db/mongo"
	"procal/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName          = "Calendars"
	ExceptionCollectionName = "Calendar_exceptions"
)

type mongoCalendarRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	calendars  *mongo.Collection
	exceptions *mongo.Collection
	txManager  mongotx.TransactionManager
}

type CalendarRepository interface {
	Upsert(ctx context.Context, cal *model.Calendar) error
	FindByProID(ctx context.Context, proID string) (*model.Calendar, error)
	UpsertException(ctx context.Context, exc *model.CalendarException) error
	DeleteException(ctx context.Context, proID string, date string) error
	FindExceptions(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoCalendarRepository(cfg *config.Config) CalendarRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCalendarRepository{
		cfg:        cfg,
		db:         db,
		calendars:  db.Collection(CollectionName),
		exceptions: db.Collection(ExceptionCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context unchanged
// with a no-op cancel function, as we cannot wrap SessionContext without breaking
// transaction semantics.
func (r *mongoCalendarRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoCalendarRepository) Upsert(ctx context.Context, cal *model.Calendar) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"_id": cal.ProID}
	update := bson.M{
		"$set": bson.M{
			"label":            cal.Label,
			"time_zone":        cal.TimeZone,
			"step_min":         cal.StepMinutes,
			"max_advance_days": cal.MaxAdvanceDays,
			"weekly":           cal.Weekly,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.calendars.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert calendar: %w", err)
	}
	if cal.CreatedAt.IsZero() {
		cal.CreatedAt = now
	}
	return nil
}

func (r *mongoCalendarRepository) FindByProID(ctx context.Context, proID string) (*model.Calendar, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var cal model.Calendar
	err := r.calendars.FindOne(ctx, bson.M{"_id": proID}).Decode(&cal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", calendarerrors.ErrNotFound, proID)
		}
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	return &cal, nil
}

func (r *mongoCalendarRepository) UpsertException(ctx context.Context, exc *model.CalendarException) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	filter := bson.M{"pro_id": exc.ProID, "date": exc.Date}
	update := bson.M{
		"$set": bson.M{
			"closed":  exc.Closed,
			"windows": exc.Windows,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.exceptions.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert calendar exception: %w", err)
	}
	if exc.CreatedAt.IsZero() {
		exc.CreatedAt = now
	}
	return nil
}

func (r *mongoCalendarRepository) DeleteException(ctx context.Context, proID string, date string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.exceptions.DeleteOne(ctx, bson.M{"pro_id": proID, "date": date})
	if err != nil {
		return fmt.Errorf("failed to delete calendar exception: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s %s", calendarerrors.ErrExceptionNotFound, proID, date)
	}
	return nil
}

func (r *mongoCalendarRepository) FindExceptions(ctx context.Context, proID string, fromDate, toDate string) ([]*model.CalendarException, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"pro_id": proID,
		"date":   bson.M{"$gte": fromDate, "$lte": toDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.exceptions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar exceptions: %w", err)
	}
	defer cursor.Close(ctx)

	var exceptions []*model.CalendarException
	if err = cursor.All(ctx, &exceptions); err != nil {
		return nil, fmt.Errorf("failed to decode calendar exceptions: %w", err)
	}
	return exceptions, nil
}

func (r *mongoCalendarRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
