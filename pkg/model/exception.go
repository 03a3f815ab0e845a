package model

import "time"

const DateLayout = "2006-01-02"

// CalendarException overrides the weekly template for one calendar date:
// either the whole day is closed, or Windows fully replaces the template's
// windows for that date. An exception is never merged with the template.
type CalendarException struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProID     string    `json:"pro_id" bson:"pro_id" validate:"required,min=1,max=64"`
	Date      string    `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Closed    bool      `json:"closed" bson:"closed"`
	Windows   []Window  `json:"windows,omitempty" bson:"windows" validate:"omitempty,max=10,dive"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
