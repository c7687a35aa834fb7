// Package programs implements the roster endpoints for programs.
package programs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Programs   *programstore.Store
	Attendance *attendancestore.Store
	ErrLog     *apierr.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(programs *programstore.Store, attendance *attendancestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Programs:   programs,
		Attendance: attendance,
		ErrLog:     apierr.NewErrorLogger(logger),
		Log:        logger,
	}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apierr.InvalidInput("Invalid program ID.", err)
	}
	return id, nil
}

// ServeList handles GET /programs.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Programs.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "programs: list failed", err, "Could not load the programs.")
		return
	}
	if list == nil {
		list = []models.Program{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// HandleCreate handles POST /programs.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Request body must be JSON.", err))
		return
	}
	if err := req.clean(); err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Programs.Create(ctx, models.Program{
		Name:      req.Name,
		DayOfWeek: req.DayOfWeek,
		Time:      req.Time,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "programs: create failed", err, "Could not save the program.")
		return
	}

	h.Log.Info("program created",
		zap.String("program_id", created.ID.Hex()),
		zap.String("name", created.Name))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// HandleUpdate handles PUT /programs/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	var req programRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogError(w, r, apierr.InvalidInput("Request body must be JSON.", err))
		return
	}
	if err := req.clean(); err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Programs.UpdateInfo(ctx, id, req.Name, req.DayOfWeek, req.Time); err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			h.ErrLog.LogError(w, r, apierr.NotFound("Program not found."))
			return
		}
		h.ErrLog.LogServerError(w, r, "programs: update failed", err, "Could not save the program.")
		return
	}

	updated, err := h.Programs.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "programs: reload after update failed", err, "Could not load the program.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

// HandleDelete handles DELETE /programs/{id}. Removing a program also
// removes its attendance history.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Programs.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "programs: delete failed", err, "Could not delete the program.")
		return
	}
	if n == 0 {
		h.ErrLog.LogError(w, r, apierr.NotFound("Program not found."))
		return
	}

	removed, err := h.Attendance.DeleteByProgram(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "programs: attendance cascade failed", err, "Program deleted, but attendance cleanup failed.")
		return
	}

	h.Log.Info("program deleted",
		zap.String("program_id", id.Hex()),
		zap.Int64("attendance_removed", removed))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(deleteResponse{Deleted: true, AttendanceRemoved: removed})
}
