package model

import (
	"fmt"
	"time"
)

// SlotLock is a provisional claim on one slot during checkout. The document
// id is derived from the slot coordinates so the collection's unique _id
// index rejects a second hold on the same slot even outside a transaction.
//
// A lock whose TTL has passed is logically dead: every read must treat it
// as absent, whether or not the reaper has physically deleted it yet.
type SlotLock struct {
	ID        string    `json:"id" bson:"_id" validate:"required"`
	ProID     string    `json:"pro_id" bson:"pro_id" validate:"required,min=1,max=64"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,min=1,max=64"`
	SlotStart time.Time `json:"slot_start" bson:"slot_start" validate:"required"`
	SlotEnd   time.Time `json:"slot_end" bson:"slot_end" validate:"required,gtfield=SlotStart"`
	TTL       time.Time `json:"ttl" bson:"ttl" validate:"required,gtfield=CreatedAt"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// LockID builds the deterministic document id for a slot claim.
func LockID(proID string, slotStart time.Time) string {
	return fmt.Sprintf("%s_%d", proID, slotStart.Unix())
}

// Expired reports whether the lock is logically dead at the given instant.
func (l *SlotLock) Expired(now time.Time) bool {
	return !l.TTL.After(now)
}
