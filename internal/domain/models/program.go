// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a recurring weekly session (e.g. "Tuesday Quran Circle").
//
// DayOfWeek is the weekday the session normally meets ("monday".."sunday",
// lowercase) and is optional; Time is a display-only clock value like
// "19:30" and is also optional. Neither affects which dates attendance can
// be recorded on.
type Program struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	DayOfWeek string             `bson:"day_of_week,omitempty" json:"day_of_week,omitempty"`
	Time      string             `bson:"time,omitempty" json:"time,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Weekdays lists the accepted day_of_week values in ISO order (Monday first).
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// ValidWeekday reports whether s is an accepted day_of_week value.
// The empty string is valid (weekday not set).
func ValidWeekday(s string) bool {
	if s == "" {
		return true
	}
	for _, d := range Weekdays {
		if s == d {
			return true
		}
	}
	return false
}
