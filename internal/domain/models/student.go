// internal/domain/models/student.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is one person on the attendance roster.
//
// Identity is the Mongo ObjectID; name and phone are editable,
// the ID never changes once created.
type Student struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	PhoneNumber string             `bson:"phone_number,omitempty" json:"phone_number,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
