package model

import "time"

// Slot is one bookable time unit, expressed as absolute instants after
// resolving the provider's time zone. Slots are derived values and are
// never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotStatus reports why a candidate slot is or is not bookable.
type SlotStatus string

const (
	SlotFree   SlotStatus = "free"
	SlotLocked SlotStatus = "locked"
	SlotBooked SlotStatus = "booked"
)

// OccupancyKind tells which record type occupies an interval.
type OccupancyKind string

const (
	OccupiedByLock    OccupancyKind = "lock"
	OccupiedByBooking OccupancyKind = "booking"
)

// Interval is an occupied time range loaded from the store.
type Interval struct {
	Start time.Time
	End   time.Time
	Kind  OccupancyKind
}

// Overlaps reports whether the interval intersects [start, end) under
// half-open semantics: an interval ending exactly when another begins does
// not overlap it.
func (iv Interval) Overlaps(start, end time.Time) bool {
	return iv.Start.Before(end) && start.Before(iv.End)
}
