// internal/app/system/stats/stats.go

// Package stats is the in-memory aggregation engine behind the analytics
// screens. It turns a flat slice of attendance rows (each joined with its
// program and student display data) into per-program rollups, ranked
// student lists, and weekly participation series.
//
// Everything here is a pure, synchronous transform: no I/O, no errors.
// Empty input yields empty output, and rates with a zero denominator are
// reported as 0 rather than NaN.
package stats

import (
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Row is one attendance record joined with the display data the rollups
// carry through to the client.
type Row struct {
	StudentID   primitive.ObjectID
	ProgramID   primitive.ObjectID
	StudentName string
	ProgramName string
	// ProgramWeekday is the program's anchor weekday ("monday".."sunday")
	// or empty when not configured. Used only for week labels.
	ProgramWeekday string
	Date           string // calendar date, "2006-01-02"
	Status         models.Status
}

// Band classifies an attendance rate for display.
type Band string

const (
	BandHigh   Band = "high"   // rate >= 80
	BandMedium Band = "medium" // 60 <= rate < 80
	BandLow    Band = "low"    // rate < 60
)

// RateBand maps an attendance rate (0..100) to its display band.
func RateBand(rate float64) Band {
	switch {
	case rate >= 80:
		return BandHigh
	case rate >= 60:
		return BandMedium
	default:
		return BandLow
	}
}

// rate returns present/total as a percentage, 0 when total is 0.
func rate(present, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(present) / float64(total) * 100
}
