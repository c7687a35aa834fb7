// Package analytics serves the aggregation screens: the overview with
// program and student rankings, and the per-program detail with its
// weekly participation series. All numbers are computed on the fly from
// the full attendance history; nothing is precomputed or cached.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/paging"
	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"

	"github.com/go-chi/chi/v5"
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

// ServeOverview handles GET /analytics/overview. The optional start
// query parameter pages the most-absent ranking.
func (h *Handler) ServeOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	rows, err := h.Attendance.ListJoined(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: history query failed", err, "Could not load attendance history.")
		return
	}

	totalStudents, err := h.Students.Count(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: student count failed", err, "Could not load the roster.")
		return
	}
	totalPrograms, err := h.Programs.Count(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: program count failed", err, "Could not load the programs.")
		return
	}

	perStudent := stats.ComputeStudents(rows)
	lowestAll := stats.LowestStudents(perStudent)
	pageRows, win := paging.Slice(lowestAll, paging.ParseStart(r))
	if pageRows == nil {
		pageRows = []stats.StudentStats{}
	}

	resp := overviewResponse{
		TotalStudents:   totalStudents,
		TotalPrograms:   totalPrograms,
		TotalAttendance: int64(len(rows)),
		TopPrograms:     stats.ComputePrograms(rows),
		TopStudents:     stats.TopStudents(perStudent),
		LowestStudents: lowestPage{
			Rows:    pageRows,
			Start:   win.Start,
			End:     win.End,
			Total:   win.Total,
			HasMore: win.HasMore,
		},
	}
	if resp.TopPrograms == nil {
		resp.TopPrograms = []stats.ProgramStats{}
	}
	if resp.TopStudents == nil {
		resp.TopStudents = []stats.StudentStats{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// ServeProgramDetail handles GET /analytics/programs/{id}: the rollup
// plus the weekly participation series for one program.
func (h *Handler) ServeProgramDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Invalid program ID.", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	program, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			h.ErrLog.LogError(w, r, apierr.NotFound("Program not found."))
			return
		}
		h.ErrLog.LogServerError(w, r, "analytics: load program failed", err, "Could not load the program.")
		return
	}

	rows, err := h.Attendance.ListJoinedByProgram(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "analytics: program history query failed", err, "Could not load attendance history.")
		return
	}

	resp := programDetailResponse{
		Program: program,
		Weekly:  stats.ComputeWeekly(rows, program.DayOfWeek),
	}
	if rollups := stats.ComputePrograms(rows); len(rollups) > 0 {
		resp.Rollup = rollups[0]
	} else {
		// No history yet; return an all-zero rollup carrying the identity.
		resp.Rollup = stats.ProgramStats{
			ProgramID:   program.ID,
			ProgramName: program.Name,
			Band:        stats.RateBand(0),
		}
	}
	if resp.Weekly.Trailing == nil {
		resp.Weekly.Trailing = []stats.WeekBucket{}
	}
	if resp.Weekly.TopWeeks == nil {
		resp.Weekly.TopWeeks = []stats.WeekBucket{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
