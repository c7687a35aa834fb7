// internal/domain/models/attendance.go
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the recorded outcome for a student at one session.
// There is no third state: a student with no record for a session is
// "not recorded", which is different from Absent.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
)

// Valid reports whether s is one of the two recordable statuses.
func (s Status) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Mark is the tri-state value the entry screen submits per student:
// leave the student unrecorded, or record Present/Absent.
//
// On the wire it is "", "Present" or "Absent". Decoding rejects anything
// else so a typo'd status can never be stored.
type Mark struct {
	Set    bool
	Status Status
}

// MarkUnset is the zero Mark (student left unrecorded).
var MarkUnset = Mark{}

// MarkOf wraps a Status in a set Mark.
func MarkOf(s Status) Mark { return Mark{Set: true, Status: s} }

// MarshalJSON renders the Mark as "", "Present" or "Absent".
func (m Mark) MarshalJSON() ([]byte, error) {
	if !m.Set {
		return json.Marshal("")
	}
	return json.Marshal(string(m.Status))
}

// UnmarshalJSON parses "", "Present" or "Absent" and rejects anything else.
func (m *Mark) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Status(s) {
	case "":
		*m = Mark{}
	case StatusPresent, StatusAbsent:
		*m = Mark{Set: true, Status: Status(s)}
	default:
		return fmt.Errorf("invalid attendance mark %q", s)
	}
	return nil
}

// AttendanceRecord ties one student to one session (program + date) with a
// recorded status. Dates are calendar-date strings ("2006-01-02"); sessions
// have no time-of-day component.
//
// At most one record may exist per (student, program, date); the attendances
// collection carries a unique index on that triple.
type AttendanceRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`
	ProgramID primitive.ObjectID `bson:"program_id" json:"program_id"`
	Date      string             `bson:"date" json:"date"`
	Status    Status             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SessionKey identifies one session: a program meeting on a calendar date.
// Used as a map key when bucketing records by session.
type SessionKey struct {
	ProgramID primitive.ObjectID
	Date      string
}

// Session returns the record's session key.
func (a AttendanceRecord) Session() SessionKey {
	return SessionKey{ProgramID: a.ProgramID, Date: a.Date}
}
