// internal/app/features/students/types.go
package students

import (
	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/sanitize"
)

// studentRequest is the create/update payload.
type studentRequest struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

// clean sanitizes the payload in place and checks required fields.
func (req *studentRequest) clean() error {
	req.Name = sanitize.Text(req.Name)
	req.PhoneNumber = sanitize.Text(req.PhoneNumber)
	if req.Name == "" {
		return apierr.Validation("Student name is required.")
	}
	return nil
}

// deleteResponse reports what a roster delete removed.
type deleteResponse struct {
	Deleted           bool  `json:"deleted"`
	AttendanceRemoved int64 `json:"attendance_removed"`
}
