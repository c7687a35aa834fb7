package analytics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/features/analytics"
	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*analytics.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := analytics.NewHandler(
		attendancestore.New(db),
		studentstore.New(db),
		programstore.New(db),
		zap.NewNop(),
	)
	return h, db
}

type overview struct {
	TotalStudents   int64                `json:"total_students"`
	TotalPrograms   int64                `json:"total_programs"`
	TotalAttendance int64                `json:"total_attendance"`
	TopPrograms     []stats.ProgramStats `json:"top_programs"`
	TopStudents     []stats.StudentStats `json:"top_students"`
	LowestStudents  struct {
		Rows    []stats.StudentStats `json:"rows"`
		Start   int                  `json:"start"`
		Total   int                  `json:"total"`
		HasMore bool                 `json:"has_more"`
	} `json:"lowest_students"`
}

func TestServeOverview(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	ali := fx.CreateStudent(ctx, "Ali", "")
	banu := fx.CreateStudent(ctx, "Banu", "")
	p1 := fx.CreateProgram(ctx, "Football", "monday", "17:00")
	p2 := fx.CreateProgram(ctx, "Theatre", "wednesday", "19:00")

	// Football: Ali present twice, Banu absent once. Theatre: Banu present.
	fx.CreateAttendance(ctx, ali.ID, p1.ID, "2025-06-02", models.StatusPresent)
	fx.CreateAttendance(ctx, ali.ID, p1.ID, "2025-06-09", models.StatusPresent)
	fx.CreateAttendance(ctx, banu.ID, p1.ID, "2025-06-02", models.StatusAbsent)
	fx.CreateAttendance(ctx, banu.ID, p2.ID, "2025-06-04", models.StatusPresent)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/analytics/overview", nil))
	rec := httptest.NewRecorder()
	h.ServeOverview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp overview
	testutil.DecodeJSON(t, rec.Body, &resp)

	if resp.TotalStudents != 2 || resp.TotalPrograms != 2 || resp.TotalAttendance != 4 {
		t.Errorf("totals = %d students, %d programs, %d records",
			resp.TotalStudents, resp.TotalPrograms, resp.TotalAttendance)
	}

	if len(resp.TopPrograms) != 2 {
		t.Fatalf("top programs = %d, want 2", len(resp.TopPrograms))
	}
	// Theatre at 100% outranks Football at 2/3.
	if resp.TopPrograms[0].ProgramName != "Theatre" {
		t.Errorf("top program = %q, want Theatre", resp.TopPrograms[0].ProgramName)
	}

	if len(resp.TopStudents) != 2 {
		t.Fatalf("top students = %d, want 2", len(resp.TopStudents))
	}
	// Ali has 2 Present marks to Banu's 1.
	if resp.TopStudents[0].StudentName != "Ali" {
		t.Errorf("top student = %q, want Ali", resp.TopStudents[0].StudentName)
	}

	// Banu carries the only Absent mark.
	if resp.LowestStudents.Total != 2 || len(resp.LowestStudents.Rows) != 2 {
		t.Fatalf("lowest page = %+v", resp.LowestStudents)
	}
	if resp.LowestStudents.Rows[0].StudentName != "Banu" {
		t.Errorf("most absent = %q, want Banu", resp.LowestStudents.Rows[0].StudentName)
	}
	if resp.LowestStudents.HasMore {
		t.Error("has_more = true for a 2-student roster")
	}
}

func TestServeOverviewEmpty(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/analytics/overview", nil))
	rec := httptest.NewRecorder()
	h.ServeOverview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp overview
	testutil.DecodeJSON(t, rec.Body, &resp)
	if resp.TotalAttendance != 0 || len(resp.TopPrograms) != 0 || len(resp.TopStudents) != 0 {
		t.Errorf("empty history produced data: %+v", resp)
	}
}

func TestServeProgramDetail(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	ali := fx.CreateStudent(ctx, "Ali", "")
	banu := fx.CreateStudent(ctx, "Banu", "")
	p := fx.CreateProgram(ctx, "Football", "monday", "17:00")

	// Two Mondays; both students on the first, Ali only on the second.
	fx.CreateAttendance(ctx, ali.ID, p.ID, "2025-06-02", models.StatusPresent)
	fx.CreateAttendance(ctx, banu.ID, p.ID, "2025-06-02", models.StatusPresent)
	fx.CreateAttendance(ctx, ali.ID, p.ID, "2025-06-09", models.StatusPresent)
	fx.CreateAttendance(ctx, banu.ID, p.ID, "2025-06-09", models.StatusAbsent)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/analytics/programs/"+p.ID.Hex(), nil))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeProgramDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Program models.Program     `json:"program"`
		Rollup  stats.ProgramStats `json:"rollup"`
		Weekly  stats.WeeklySeries `json:"weekly"`
	}
	testutil.DecodeJSON(t, rec.Body, &resp)

	if resp.Program.Name != "Football" {
		t.Errorf("program = %+v", resp.Program)
	}
	if resp.Rollup.TotalAttendance != 4 || resp.Rollup.PresentCount != 3 || resp.Rollup.TotalSessions != 2 {
		t.Errorf("rollup = %+v", resp.Rollup)
	}
	if resp.Rollup.AverageParticipants != 2 {
		t.Errorf("average participants = %d, want 2", resp.Rollup.AverageParticipants)
	}

	if len(resp.Weekly.Trailing) != 2 {
		t.Fatalf("trailing weeks = %d, want 2", len(resp.Weekly.Trailing))
	}
	if resp.Weekly.Trailing[0].WeekKey != "2025-06-02" || resp.Weekly.Trailing[0].PresentCount != 2 {
		t.Errorf("week 1 = %+v", resp.Weekly.Trailing[0])
	}
	if resp.Weekly.Trailing[1].WeekKey != "2025-06-09" || resp.Weekly.Trailing[1].PresentCount != 1 {
		t.Errorf("week 2 = %+v", resp.Weekly.Trailing[1])
	}
	if len(resp.Weekly.TopWeeks) != 2 || resp.Weekly.TopWeeks[0].WeekKey != "2025-06-02" {
		t.Errorf("top weeks = %+v", resp.Weekly.TopWeeks)
	}
}

func TestServeProgramDetailNoHistory(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.CreateProgram(ctx, "Chess Club", "", "")

	req := testutil.SignedIn(httptest.NewRequest("GET", "/analytics/programs/"+p.ID.Hex(), nil))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeProgramDetail(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Rollup stats.ProgramStats `json:"rollup"`
	}
	testutil.DecodeJSON(t, rec.Body, &resp)
	if resp.Rollup.ProgramID != p.ID || resp.Rollup.TotalAttendance != 0 {
		t.Errorf("empty rollup = %+v", resp.Rollup)
	}
}

func TestServeProgramDetailNotFound(t *testing.T) {
	h, _ := newTestHandler(t)

	id := primitive.NewObjectID().Hex()
	req := testutil.SignedIn(httptest.NewRequest("GET", "/analytics/programs/"+id, nil))
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	h.ServeProgramDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
