// internal/app/features/programs/types.go
package programs

import (
	"strings"

	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/sanitize"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// programRequest is the create/update payload.
type programRequest struct {
	Name      string `json:"name"`
	DayOfWeek string `json:"day_of_week"`
	Time      string `json:"time"`
}

// clean sanitizes the payload in place and checks required fields.
// DayOfWeek and Time are optional; a set DayOfWeek must be a weekday name.
func (req *programRequest) clean() error {
	req.Name = sanitize.Text(req.Name)
	req.DayOfWeek = strings.ToLower(sanitize.Text(req.DayOfWeek))
	req.Time = sanitize.Text(req.Time)
	if req.Name == "" {
		return apierr.Validation("Program name is required.")
	}
	if !models.ValidWeekday(req.DayOfWeek) {
		return apierr.Validation("Day of week must be a weekday name (monday through sunday).")
	}
	return nil
}

// deleteResponse reports what a program delete removed.
type deleteResponse struct {
	Deleted           bool  `json:"deleted"`
	AttendanceRemoved int64 `json:"attendance_removed"`
}
