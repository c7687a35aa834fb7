package csvutil

import (
	"strings"
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/domain/models"
)

func TestWriteAttendance(t *testing.T) {
	rows := []stats.Row{
		{Date: "2025-06-09", ProgramName: "Football", StudentName: "Ali", Status: models.StatusPresent},
		{Date: "2025-06-02", ProgramName: "Football", StudentName: "Banu, Jr.", Status: models.StatusAbsent},
	}

	var b strings.Builder
	if err := WriteAttendance(&b, rows); err != nil {
		t.Fatalf("WriteAttendance: %v", err)
	}

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), b.String())
	}
	if lines[0] != "Date,Program,Student,Status" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2025-06-09,Football,Ali,Present" {
		t.Errorf("row 1 = %q", lines[1])
	}
	// Commas in names must be quoted.
	if lines[2] != `2025-06-02,Football,"Banu, Jr.",Absent` {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWriteAttendanceEmpty(t *testing.T) {
	var b strings.Builder
	if err := WriteAttendance(&b, nil); err != nil {
		t.Fatalf("WriteAttendance: %v", err)
	}
	if got := strings.TrimRight(b.String(), "\n"); got != "Date,Program,Student,Status" {
		t.Errorf("empty export = %q, want header only", got)
	}
}

func TestExportFilename(t *testing.T) {
	a := ExportFilename()
	b := ExportFilename()
	if a == b {
		t.Error("two export filenames collided")
	}
	if !strings.HasPrefix(a, "attendance-") || !strings.HasSuffix(a, ".csv") {
		t.Errorf("filename shape = %q", a)
	}
}
