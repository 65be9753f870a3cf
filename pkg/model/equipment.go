package model

import "time"

// Equipment is a bookable facility item. Deleting equipment cascades to its
// reservations.
type Equipment struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=200"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}
