// internal/app/system/stats/students.go
package stats

import (
	"sort"

	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TopStudentCount caps the "most engaged" ranking; the "most absent"
// ranking is paged by the same figure instead of being truncated.
const TopStudentCount = 15

// StudentStats is the per-student rollup.
//
// TotalPrograms keeps the reference screens' field name: it counts the
// sessions the student was marked in, not distinct programs.
type StudentStats struct {
	StudentID   primitive.ObjectID `json:"student_id"`
	StudentName string             `json:"student_name"`

	TotalPrograms  int     `json:"total_programs"`
	PresentCount   int     `json:"present_count"`
	AbsentCount    int     `json:"absent_count"`
	AttendanceRate float64 `json:"attendance_rate"`

	// LastAttendanceDate is the latest date the student has any record on,
	// empty when the student has no dated records. ISO dates compare
	// correctly as strings.
	LastAttendanceDate string `json:"last_attendance_date,omitempty"`

	Band Band `json:"band"`
}

// ComputeStudents rolls up rows per student. The result is ordered by
// student name (then ID) so callers that don't re-rank still render a
// stable list.
func ComputeStudents(rows []Row) []StudentStats {
	byStudent := make(map[primitive.ObjectID]*StudentStats)

	for _, r := range rows {
		ss, ok := byStudent[r.StudentID]
		if !ok {
			ss = &StudentStats{StudentID: r.StudentID, StudentName: r.StudentName}
			byStudent[r.StudentID] = ss
		}
		ss.TotalPrograms++
		if r.Status == models.StatusPresent {
			ss.PresentCount++
		} else {
			ss.AbsentCount++
		}
		if r.Date > ss.LastAttendanceDate {
			ss.LastAttendanceDate = r.Date
		}
	}

	out := make([]StudentStats, 0, len(byStudent))
	for _, ss := range byStudent {
		ss.AttendanceRate = rate(ss.PresentCount, ss.TotalPrograms)
		ss.Band = RateBand(ss.AttendanceRate)
		out = append(out, *ss)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentName != out[j].StudentName {
			return out[i].StudentName < out[j].StudentName
		}
		return out[i].StudentID.Hex() < out[j].StudentID.Hex()
	})
	return out
}

// rankLess orders two students by a primary count (descending) and the
// shared tie-break chain: sessions marked desc, last attendance date desc
// (no date sorts last), then name/ID ascending so exact ties still rank
// deterministically.
func rankLess(a, b StudentStats, primaryA, primaryB int) bool {
	if primaryA != primaryB {
		return primaryA > primaryB
	}
	if a.TotalPrograms != b.TotalPrograms {
		return a.TotalPrograms > b.TotalPrograms
	}
	if a.LastAttendanceDate != b.LastAttendanceDate {
		return a.LastAttendanceDate > b.LastAttendanceDate
	}
	if a.StudentName != b.StudentName {
		return a.StudentName < b.StudentName
	}
	return a.StudentID.Hex() < b.StudentID.Hex()
}

// TopStudents ranks by Present count descending and keeps the top 15.
func TopStudents(all []StudentStats) []StudentStats {
	ranked := make([]StudentStats, len(all))
	copy(ranked, all)
	sort.Slice(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j], ranked[i].PresentCount, ranked[j].PresentCount)
	})
	if len(ranked) > TopStudentCount {
		ranked = ranked[:TopStudentCount]
	}
	return ranked
}

// LowestStudents ranks by Absent count descending. The full list is
// returned; the analytics screen reveals it in pages of 15.
func LowestStudents(all []StudentStats) []StudentStats {
	ranked := make([]StudentStats, len(all))
	copy(ranked, all)
	sort.Slice(ranked, func(i, j int) bool {
		return rankLess(ranked[i], ranked[j], ranked[i].AbsentCount, ranked[j].AbsentCount)
	})
	return ranked
}
