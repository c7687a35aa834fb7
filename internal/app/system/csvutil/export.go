// internal/app/system/csvutil/export.go

// Package csvutil writes attendance history as CSV for download.
package csvutil

import (
	"encoding/csv"
	"io"

	"github.com/rollcallhq/rollcall/internal/app/system/stats"

	"github.com/google/uuid"
)

// Header is the column layout of an attendance export.
var Header = []string{"Date", "Program", "Student", "Status"}

// WriteAttendance writes joined attendance rows to w as CSV, header first.
// Rows are written in the order given (the stores hand them over newest
// session first).
func WriteAttendance(w io.Writer, rows []stats.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{row.Date, row.ProgramName, row.StudentName, string(row.Status)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns a collision-proof download name. Random names
// keep one client's export from clobbering another's in shared folders.
func ExportFilename() string {
	return "attendance-" + uuid.NewString() + ".csv"
}
