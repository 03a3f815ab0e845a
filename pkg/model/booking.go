package model

import "time"

// Booking statuses. Only cancelled bookings release their slot; a booking
// awaiting payment still occupies it so the slot cannot be sold twice
// during checkout.
const (
	StatusPendingPayment = "pending_payment"
	StatusConfirmed      = "confirmed"
	StatusCancelled      = "cancelled"
	StatusCompleted      = "completed"
)

// Booking is a confirmed or in-flight reservation of one slot. Created in
// pending_payment by converting a SlotLock; the payment collaborator drives
// it to confirmed or cancelled, and an external trigger marks it completed
// after the service time has elapsed.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProID     string    `json:"pro_id" bson:"pro_id" validate:"required,min=1,max=64"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=64"`
	SlotStart time.Time `json:"slot_start" bson:"slot_start" validate:"required"`
	SlotEnd   time.Time `json:"slot_end" bson:"slot_end" validate:"required,gtfield=SlotStart"`
	Status    string    `json:"status" bson:"status" validate:"required,oneof=pending_payment confirmed cancelled completed"`

	// Audit fields, writable only while cancelling.
	RefundAmount  int64 `json:"refund_amount,omitempty" bson:"refund_amount,omitempty" validate:"omitempty,min=0"`
	PenaltyAmount int64 `json:"penalty_amount,omitempty" bson:"penalty_amount,omitempty" validate:"omitempty,min=0"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Occupies reports whether the booking holds its slot in the occupancy
// index.
func (b *Booking) Occupies() bool {
	return b.Status != StatusCancelled
}

// CanTransition reports whether the status machine allows moving from the
// booking's current status to next. Cancelled and completed are terminal.
func (b *Booking) CanTransition(next string) bool {
	switch b.Status {
	case StatusPendingPayment:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled || next == StatusCompleted
	default:
		return false
	}
}
