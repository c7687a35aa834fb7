package attendance_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/features/attendance"
	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	"github.com/rollcallhq/rollcall/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*attendance.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := attendance.NewHandler(
		attendancestore.New(db),
		studentstore.New(db),
		programstore.New(db),
		zap.NewNop(),
	)
	return h, db
}

func seedHistory(t *testing.T, db *mongo.Database) (models.Student, models.Student, models.Program) {
	t.Helper()
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	ali := fx.CreateStudent(ctx, "Ali", "")
	banu := fx.CreateStudent(ctx, "Banu", "")
	p := fx.CreateProgram(ctx, "Football", "monday", "17:00")

	fx.CreateAttendance(ctx, ali.ID, p.ID, "2025-06-02", models.StatusPresent)
	fx.CreateAttendance(ctx, banu.ID, p.ID, "2025-06-02", models.StatusAbsent)
	fx.CreateAttendance(ctx, ali.ID, p.ID, "2025-06-09", models.StatusPresent)

	return ali, banu, p
}

func TestServeListFilters(t *testing.T) {
	h, db := newTestHandler(t)
	_, _, p := seedHistory(t, db)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"no filters", "/attendance", 3},
		{"by program", "/attendance?program_id=" + p.ID.Hex(), 3},
		{"by date", "/attendance?date=2025-06-02", 2},
		{"by name", "/attendance?q=ban", 1},
		{"by program name", "/attendance?q=foot", 3},
		{"name and date", "/attendance?date=2025-06-02&q=ali", 1},
		{"no match", "/attendance?q=zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.SignedIn(httptest.NewRequest("GET", tt.url, nil))
			rec := httptest.NewRecorder()
			h.ServeList(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
			}
			var rows []map[string]any
			testutil.DecodeJSON(t, rec.Body, &rows)
			if len(rows) != tt.want {
				t.Errorf("rows = %d, want %d", len(rows), tt.want)
			}
		})
	}
}

func TestServeListBadProgramID(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/attendance?program_id=junk", nil))
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeDates(t *testing.T) {
	h, db := newTestHandler(t)
	_, _, p := seedHistory(t, db)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/attendance/dates?program_id="+p.ID.Hex(), nil))
	rec := httptest.NewRecorder()
	h.ServeDates(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var dates []string
	testutil.DecodeJSON(t, rec.Body, &dates)
	want := []string{"2025-06-09", "2025-06-02"}
	if len(dates) != 2 || dates[0] != want[0] || dates[1] != want[1] {
		t.Errorf("dates = %v, want %v", dates, want)
	}
}

func TestServeDatesRequiresProgram(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/attendance/dates", nil))
	rec := httptest.NewRecorder()
	h.ServeDates(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServeSheet(t *testing.T) {
	h, db := newTestHandler(t)
	ali, banu, p := seedHistory(t, db)

	// Cem has never been marked for this session.
	ctx := testutil.TestContext(t)
	cem := testutil.NewFixtures(t, db).CreateStudent(ctx, "Cem", "")

	req := testutil.SignedIn(httptest.NewRequest("GET",
		"/attendance/sheet?program_id="+p.ID.Hex()+"&date=2025-06-02", nil))
	rec := httptest.NewRecorder()
	h.ServeSheet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var rows []struct {
		StudentID string `json:"student_id"`
		Mark      string `json:"mark"`
	}
	testutil.DecodeJSON(t, rec.Body, &rows)
	if len(rows) != 3 {
		t.Fatalf("sheet rows = %d, want full roster of 3", len(rows))
	}
	marks := map[string]string{}
	for _, r := range rows {
		marks[r.StudentID] = r.Mark
	}
	if marks[ali.ID.Hex()] != "Present" {
		t.Errorf("ali mark = %q, want Present", marks[ali.ID.Hex()])
	}
	if marks[banu.ID.Hex()] != "Absent" {
		t.Errorf("banu mark = %q, want Absent", marks[banu.ID.Hex()])
	}
	if marks[cem.ID.Hex()] != "" {
		t.Errorf("cem mark = %q, want unset", marks[cem.ID.Hex()])
	}
}

func TestServeSheetUnknownProgram(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.SignedIn(httptest.NewRequest("GET",
		"/attendance/sheet?program_id="+primitive.NewObjectID().Hex()+"&date=2025-06-02", nil))
	rec := httptest.NewRecorder()
	h.ServeSheet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleReconcile(t *testing.T) {
	h, db := newTestHandler(t)
	ali, banu, p := seedHistory(t, db)

	// Flip ali to absent, clear banu for the June 2nd session.
	body := `{
		"program_id": "` + p.ID.Hex() + `",
		"date": "2025-06-02",
		"marks": {
			"` + ali.ID.Hex() + `": "Absent",
			"` + banu.ID.Hex() + `": ""
		}
	}`
	req := testutil.SignedIn(httptest.NewRequest("POST", "/attendance/reconcile", testutil.JSONBody(body)))
	rec := httptest.NewRecorder()
	h.HandleReconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Inserted int64 `json:"inserted"`
		Updated  int64 `json:"updated"`
		Deleted  int64 `json:"deleted"`
	}
	testutil.DecodeJSON(t, rec.Body, &resp)
	if resp.Inserted != 0 || resp.Updated != 1 || resp.Deleted != 1 {
		t.Errorf("response = %+v, want 1 update and 1 delete", resp)
	}
}

func TestHandleReconcileValidation(t *testing.T) {
	h, db := newTestHandler(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	st := fx.CreateStudent(ctx, "Ali", "")
	p := fx.CreateProgram(ctx, "Football", "monday", "17:00")

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			"bad program id",
			`{"program_id":"junk","date":"2025-06-02","marks":{"` + st.ID.Hex() + `":"Present"}}`,
			http.StatusBadRequest,
		},
		{
			"bad date",
			`{"program_id":"` + p.ID.Hex() + `","date":"junk","marks":{"` + st.ID.Hex() + `":"Present"}}`,
			http.StatusBadRequest,
		},
		{
			"bad status word",
			`{"program_id":"` + p.ID.Hex() + `","date":"2025-06-02","marks":{"` + st.ID.Hex() + `":"Maybe"}}`,
			http.StatusBadRequest,
		},
		{
			"no marks",
			`{"program_id":"` + p.ID.Hex() + `","date":"2025-06-02","marks":{}}`,
			http.StatusBadRequest,
		},
		{
			"all unset on new session",
			`{"program_id":"` + p.ID.Hex() + `","date":"2025-06-02","marks":{"` + st.ID.Hex() + `":""}}`,
			http.StatusBadRequest,
		},
		{
			"unknown program",
			`{"program_id":"` + primitive.NewObjectID().Hex() + `","date":"2025-06-02","marks":{"` + st.ID.Hex() + `":"Present"}}`,
			http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.SignedIn(httptest.NewRequest("POST", "/attendance/reconcile", testutil.JSONBody(tt.body)))
			rec := httptest.NewRecorder()
			h.HandleReconcile(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestServeExport(t *testing.T) {
	h, db := newTestHandler(t)
	seedHistory(t, db)

	req := testutil.SignedIn(httptest.NewRequest("GET", "/attendance/export", nil))
	rec := httptest.NewRecorder()
	h.ServeExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("export lines = %d, want header + 3 rows:\n%s", len(lines), rec.Body.String())
	}
	if lines[0] != "Date,Program,Student,Status" {
		t.Errorf("header = %q", lines[0])
	}
}
