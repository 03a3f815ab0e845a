package events

import (
	"context"
	"time"

	"procal/pkg/kafka"
	"procal/pkg/logger"
	"procal/pkg/model"
)

// Event types published on the booking events topic.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"

	schemaVersion = "1"
)

// BookingEvent is the payload published for every booking state change.
// Events are keyed by pro_id so per-provider ordering is preserved.
type BookingEvent struct {
	BookingID string    `json:"booking_id"`
	ProID     string    `json:"pro_id"`
	UserID    string    `json:"user_id"`
	SlotStart time.Time `json:"slot_start"`
	SlotEnd   time.Time `json:"slot_end"`
	Status    string    `json:"status"`
	EmittedAt time.Time `json:"emitted_at"`
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// BookingPublisher emits booking lifecycle events. Publishing is best
// effort: failures are logged, never surfaced to the caller, so a broker
// outage cannot fail a booking write that already committed.
type BookingPublisher struct {
	producer publisher
	source   string
	log      *logger.Logger
}

func NewBookingPublisher(producer publisher, source string, log *logger.Logger) *BookingPublisher {
	return &BookingPublisher{
		producer: producer,
		source:   source,
		log:      log,
	}
}

func (p *BookingPublisher) Publish(ctx context.Context, eventType string, booking *model.Booking) {
	if p == nil || p.producer == nil {
		return
	}

	event := BookingEvent{
		BookingID: booking.ID,
		ProID:     booking.ProID,
		UserID:    booking.UserID,
		SlotStart: booking.SlotStart,
		SlotEnd:   booking.SlotEnd,
		Status:    booking.Status,
		EmittedAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ProID).
		WithValue(event).
		WithEventID("").
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		Build()

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"pro_id", event.ProID,
			"error", err,
		)
	}
}
