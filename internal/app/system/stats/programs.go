// internal/app/system/stats/programs.go
package stats

import (
	"math"
	"sort"

	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopProgramCount caps the "most attended programs" list.
const TopProgramCount = 5

// ProgramStats is the per-program rollup.
type ProgramStats struct {
	ProgramID   primitive.ObjectID `json:"program_id"`
	ProgramName string             `json:"program_name"`

	TotalAttendance int     `json:"total_attendance"`
	PresentCount    int     `json:"present_count"`
	AbsentCount     int     `json:"absent_count"`
	AttendanceRate  float64 `json:"attendance_rate"`

	// TotalSessions counts distinct (program, date) pairs.
	TotalSessions int `json:"total_sessions"`
	// AverageParticipants is the mean distinct-student count per session,
	// rounded half-up to the nearest whole student.
	AverageParticipants int `json:"average_participants"`

	Band Band `json:"band"`
}

// ComputePrograms rolls up rows per program, sorts by attendance rate
// descending, and keeps the top 5.
//
// Rates can tie exactly, so the sort breaks ties on program name ascending
// and then program ID, keeping the ranking deterministic.
func ComputePrograms(rows []Row) []ProgramStats {
	byProgram := make(map[primitive.ObjectID]*ProgramStats)
	sessionStudents := make(map[models.SessionKey]map[primitive.ObjectID]struct{})
	programSessions := make(map[primitive.ObjectID]map[models.SessionKey]struct{})

	for _, r := range rows {
		ps, ok := byProgram[r.ProgramID]
		if !ok {
			ps = &ProgramStats{ProgramID: r.ProgramID, ProgramName: r.ProgramName}
			byProgram[r.ProgramID] = ps
		}
		ps.TotalAttendance++
		if r.Status == models.StatusPresent {
			ps.PresentCount++
		} else {
			ps.AbsentCount++
		}

		key := models.SessionKey{ProgramID: r.ProgramID, Date: r.Date}
		if programSessions[r.ProgramID] == nil {
			programSessions[r.ProgramID] = make(map[models.SessionKey]struct{})
		}
		programSessions[r.ProgramID][key] = struct{}{}
		if sessionStudents[key] == nil {
			sessionStudents[key] = make(map[primitive.ObjectID]struct{})
		}
		sessionStudents[key][r.StudentID] = struct{}{}
	}

	out := make([]ProgramStats, 0, len(byProgram))
	for id, ps := range byProgram {
		ps.AttendanceRate = rate(ps.PresentCount, ps.TotalAttendance)
		ps.Band = RateBand(ps.AttendanceRate)

		sessions := programSessions[id]
		ps.TotalSessions = len(sessions)
		if len(sessions) > 0 {
			participants := 0
			for key := range sessions {
				participants += len(sessionStudents[key])
			}
			ps.AverageParticipants = int(math.Round(float64(participants) / float64(len(sessions))))
		}
		out = append(out, *ps)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AttendanceRate != b.AttendanceRate {
			return a.AttendanceRate > b.AttendanceRate
		}
		if a.ProgramName != b.ProgramName {
			return a.ProgramName < b.ProgramName
		}
		return a.ProgramID.Hex() < b.ProgramID.Hex()
	})

	if len(out) > TopProgramCount {
		out = out[:TopProgramCount]
	}
	return out
}
