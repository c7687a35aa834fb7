// internal/app/features/analytics/types.go
package analytics

import (
	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

// lowestPage is one "show more" page of the most-absent ranking.
type lowestPage struct {
	Rows    []stats.StudentStats `json:"rows"`
	Start   int                  `json:"start"`
	End     int                  `json:"end"`
	Total   int                  `json:"total"`
	HasMore bool                 `json:"has_more"`
}

// overviewResponse is the analytics landing screen.
type overviewResponse struct {
	TotalStudents   int64 `json:"total_students"`
	TotalPrograms   int64 `json:"total_programs"`
	TotalAttendance int64 `json:"total_attendance"`

	TopPrograms    []stats.ProgramStats `json:"top_programs"`
	TopStudents    []stats.StudentStats `json:"top_students"`
	LowestStudents lowestPage           `json:"lowest_students"`
}

// programDetailResponse is the per-program analytics screen.
type programDetailResponse struct {
	Program models.Program     `json:"program"`
	Rollup  stats.ProgramStats `json:"rollup"`
	Weekly  stats.WeeklySeries `json:"weekly"`
}
