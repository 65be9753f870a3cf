package model

import "time"

// User is a facility member who can hold reservations. Kana is the phonetic
// sort key: user collections are always presented in kana order under
// Japanese collation, and initial seeding dedups by kana.
type User struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Kana       string    `json:"kana" bson:"kana" validate:"required,min=1,max=100"`
	Department string    `json:"department" bson:"department" validate:"required,min=1,max=100"`
	Email      string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}
