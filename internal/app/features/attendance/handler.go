// Package attendance implements the marking sheet and history endpoints:
// browsing recorded sessions, reading one session as a sheet, saving a
// sheet back as a reconcile batch, and exporting history as CSV.
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/csvutil"
	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/app/system/week"
	"github.com/rollcallhq/rollcall/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Attendance *attendancestore.Store
	Students   *studentstore.Store
	Programs   *programstore.Store
	ErrLog     *apierr.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(att *attendancestore.Store, students *studentstore.Store, programs *programstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Attendance: att,
		Students:   students,
		Programs:   programs,
		ErrLog:     apierr.NewErrorLogger(logger),
		Log:        logger,
	}
}

// queryProgramID parses the program_id query parameter. required
// distinguishes endpoints that need one from those that accept "all".
func queryProgramID(r *http.Request, required bool) (primitive.ObjectID, bool, error) {
	raw := query.Get(r, "program_id")
	if raw == "" {
		if required {
			return primitive.NilObjectID, false, apierr.InvalidInput("program_id is required.", nil)
		}
		return primitive.NilObjectID, false, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, false, apierr.InvalidInput("Invalid program_id.", err)
	}
	return id, true, nil
}

// ServeList handles GET /attendance. Optional filters: program_id, date,
// and q (case-insensitive match on student or program name). Rows come
// back newest session first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	programID, haveProgram, err := queryProgramID(r, false)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	date := query.Get(r, "date")
	if date != "" {
		if date, err = week.NormalizeDate(date); err != nil {
			h.ErrLog.LogError(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var rows []stats.Row
	if haveProgram {
		rows, err = h.Attendance.ListJoinedByProgram(ctx, programID)
	} else {
		rows, err = h.Attendance.ListJoined(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance: list failed", err, "Could not load attendance history.")
		return
	}

	q := strings.ToLower(strings.TrimSpace(query.Get(r, "q")))
	out := make([]listRow, 0, len(rows))
	for _, row := range rows {
		if date != "" && row.Date != date {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(row.StudentName), q) &&
			!strings.Contains(strings.ToLower(row.ProgramName), q) {
			continue
		}
		out = append(out, listRow{
			StudentID:   row.StudentID.Hex(),
			ProgramID:   row.ProgramID.Hex(),
			StudentName: row.StudentName,
			ProgramName: row.ProgramName,
			Date:        row.Date,
			Status:      row.Status,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// ServeDates handles GET /attendance/dates?program_id=…, the session
// picker's list of recorded dates, newest first.
func (h *Handler) ServeDates(w http.ResponseWriter, r *http.Request) {
	programID, _, err := queryProgramID(r, true)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	dates, err := h.Attendance.Dates(ctx, programID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance: dates failed", err, "Could not load session dates.")
		return
	}
	if dates == nil {
		dates = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dates)
}

// ServeSheet handles GET /attendance/sheet?program_id=…&date=…. It
// returns the full roster with each student's saved mark for the
// session, or an unset mark for students never touched. Without a date
// it serves today's sheet.
func (h *Handler) ServeSheet(w http.ResponseWriter, r *http.Request) {
	programID, _, err := queryProgramID(r, true)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}
	date := query.Get(r, "date")
	if date == "" {
		// The entry screen opens on today's session.
		date = time.Now().UTC().Format(week.DateLayout)
	} else if date, err = week.NormalizeDate(date); err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			h.ErrLog.LogError(w, r, apierr.NotFound("Program not found."))
			return
		}
		h.ErrLog.LogServerError(w, r, "attendance: load program failed", err, "Could not load the program.")
		return
	}

	roster, err := h.Students.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance: load roster failed", err, "Could not load the roster.")
		return
	}
	recs, err := h.Attendance.ListBySession(ctx, programID, date)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance: load session failed", err, "Could not load the session.")
		return
	}

	saved := make(map[primitive.ObjectID]models.Status, len(recs))
	for _, rec := range recs {
		saved[rec.StudentID] = rec.Status
	}

	rows := make([]sheetRow, 0, len(roster))
	for _, st := range roster {
		row := sheetRow{
			StudentID:   st.ID.Hex(),
			StudentName: st.Name,
			PhoneNumber: st.PhoneNumber,
		}
		if status, ok := saved[st.ID]; ok {
			row.Mark = models.MarkOf(status)
		}
		rows = append(rows, row)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// HandleReconcile handles POST /attendance/reconcile: one saved sheet,
// applied as a batch of inserts, updates, and deletes.
func (h *Handler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Request body must be JSON with program_id, date, and marks.", err))
		return
	}

	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Invalid program_id.", err))
		return
	}
	date, err := week.NormalizeDate(req.Date)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}
	if len(req.Marks) == 0 {
		h.ErrLog.LogError(w, r, apierr.Validation("The batch has no marks."))
		return
	}

	marks := make(map[primitive.ObjectID]models.Mark, len(req.Marks))
	for hex, mark := range req.Marks {
		sid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			h.ErrLog.LogError(w, r, apierr.InvalidInput("Invalid student ID in marks: "+hex, err))
			return
		}
		marks[sid] = mark
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Programs.GetByID(ctx, programID); err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			h.ErrLog.LogError(w, r, apierr.NotFound("Program not found."))
			return
		}
		h.ErrLog.LogServerError(w, r, "attendance: load program failed", err, "Could not load the program.")
		return
	}

	res, err := h.Attendance.Reconcile(ctx, programID, date, marks)
	if err != nil {
		switch {
		case errors.Is(err, attendancestore.ErrEmptyBatch):
			h.ErrLog.LogError(w, r, apierr.Validation("Mark at least one student before saving a new session."))
		case errors.Is(err, attendancestore.ErrConflict):
			h.ErrLog.LogError(w, r, apierr.Validation("The session changed while you were editing. Reload and try again."))
		default:
			h.ErrLog.LogServerError(w, r, "attendance: reconcile failed", err, "Could not save the attendance sheet.")
		}
		return
	}

	h.Log.Info("attendance reconciled",
		zap.String("program_id", programID.Hex()),
		zap.String("date", date),
		zap.Int64("inserted", res.Inserted),
		zap.Int64("updated", res.Updated),
		zap.Int64("deleted", res.Deleted))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reconcileResponse{
		Inserted: res.Inserted,
		Updated:  res.Updated,
		Deleted:  res.Deleted,
	})
}

// ServeExport handles GET /attendance/export. With program_id it exports
// one program's history; without, everything.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	programID, haveProgram, err := queryProgramID(r, false)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var rows []stats.Row
	if haveProgram {
		rows, err = h.Attendance.ListJoinedByProgram(ctx, programID)
	} else {
		rows, err = h.Attendance.ListJoined(ctx)
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "attendance: export query failed", err, "Could not export attendance history.")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+csvutil.ExportFilename()+`"`)
	if err := csvutil.WriteAttendance(w, rows); err != nil {
		// Headers are gone; all we can do is log.
		h.Log.Error("attendance: export write failed", zap.Error(err))
	}
}
