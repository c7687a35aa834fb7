package programs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/features/programs"
	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*programs.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := programs.NewHandler(programstore.New(db), attendancestore.New(db), zap.NewNop())
	return h, db
}

func TestHandleCreate(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.SignedIn(httptest.NewRequest("POST", "/programs",
		testutil.JSONBody(`{"name":"Football","day_of_week":"Monday","time":"17:30"}`)))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.Program
	testutil.DecodeJSON(t, rec.Body, &created)
	if created.Name != "Football" {
		t.Errorf("name = %q", created.Name)
	}
	// Weekday names are folded to lowercase on the way in.
	if created.DayOfWeek != "monday" {
		t.Errorf("day_of_week = %q, want monday", created.DayOfWeek)
	}
	if created.Time != "17:30" {
		t.Errorf("time = %q", created.Time)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"day_of_week":"monday"}`},
		{"bad weekday", `{"name":"Football","day_of_week":"someday"}`},
		{"malformed body", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.SignedIn(httptest.NewRequest("POST", "/programs", testutil.JSONBody(tt.body)))
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleCreateOptionalSchedule(t *testing.T) {
	h, _ := newTestHandler(t)

	// Day and time are optional; a program can exist without a schedule.
	req := testutil.SignedIn(httptest.NewRequest("POST", "/programs",
		testutil.JSONBody(`{"name":"Chess Club"}`)))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestHandleUpdate(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	p := fx.CreateProgram(ctx, "Football", "monday", "17:00")

	req := testutil.SignedIn(httptest.NewRequest("PUT", "/programs/"+p.ID.Hex(),
		testutil.JSONBody(`{"name":"Futsal","day_of_week":"friday","time":"18:00"}`)))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated models.Program
	testutil.DecodeJSON(t, rec.Body, &updated)
	if updated.Name != "Futsal" || updated.DayOfWeek != "friday" || updated.Time != "18:00" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestHandleDeleteCascades(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	st := fx.CreateStudent(ctx, "Ali", "")
	p := fx.CreateProgram(ctx, "Football", "monday", "17:00")
	other := fx.CreateProgram(ctx, "Theatre", "wednesday", "19:00")
	fx.CreateAttendance(ctx, st.ID, p.ID, "2025-06-02", models.StatusPresent)
	fx.CreateAttendance(ctx, st.ID, other.ID, "2025-06-04", models.StatusPresent)

	req := testutil.SignedIn(httptest.NewRequest("DELETE", "/programs/"+p.ID.Hex(), nil))
	req = testutil.WithChiURLParam(req, "id", p.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Deleted           bool  `json:"deleted"`
		AttendanceRemoved int64 `json:"attendance_removed"`
	}
	testutil.DecodeJSON(t, rec.Body, &resp)
	if !resp.Deleted || resp.AttendanceRemoved != 1 {
		t.Errorf("response = %+v", resp)
	}

	// The other program's history is untouched.
	n, err := attendancestore.New(db).Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("remaining attendance = %d, want 1", n)
	}
}
