// internal/app/features/attendance/types.go
package attendance

import (
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// listRow is one history row shown on the attendance list screen.
type listRow struct {
	StudentID   string        `json:"student_id"`
	ProgramID   string        `json:"program_id"`
	StudentName string        `json:"student_name"`
	ProgramName string        `json:"program_name"`
	Date        string        `json:"date"`
	Status      models.Status `json:"status"`
}

// sheetRow is one roster line on the marking sheet: every student, with
// their saved mark for the session or empty when untouched.
type sheetRow struct {
	StudentID   string      `json:"student_id"`
	StudentName string      `json:"student_name"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	Mark        models.Mark `json:"mark"`
}

// reconcileRequest is one saved sheet. Marks is keyed by student ID hex;
// each value is "", "Present" or "Absent".
type reconcileRequest struct {
	ProgramID string                 `json:"program_id"`
	Date      string                 `json:"date"`
	Marks     map[string]models.Mark `json:"marks"`
}

// reconcileResponse reports what the batch changed.
type reconcileResponse struct {
	Inserted int64 `json:"inserted"`
	Updated  int64 `json:"updated"`
	Deleted  int64 `json:"deleted"`
}
