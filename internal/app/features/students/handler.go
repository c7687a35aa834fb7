// Package students implements the roster endpoints for students.
package students

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/app/system/apierr"
	"github.com/rollcallhq/rollcall/internal/app/system/timeouts"
	"github.com/rollcallhq/rollcall/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Students   *studentstore.Store
	Attendance *attendancestore.Store
	ErrLog     *apierr.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(students *studentstore.Store, attendance *attendancestore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Students:   students,
		Attendance: attendance,
		ErrLog:     apierr.NewErrorLogger(logger),
		Log:        logger,
	}
}

func pathID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		return primitive.NilObjectID, apierr.InvalidInput("Invalid student ID.", err)
	}
	return id, nil
}

// ServeList handles GET /students.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Students.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "students: list failed", err, "Could not load the roster.")
		return
	}
	if list == nil {
		list = []models.Student{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(list)
}

// HandleCreate handles POST /students.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
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

	created, err := h.Students.Create(ctx, models.Student{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "students: create failed", err, "Could not save the student.")
		return
	}

	h.Log.Info("student created",
		zap.String("student_id", created.ID.Hex()),
		zap.String("name", created.Name))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// HandleUpdate handles PUT /students/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	var req studentRequest
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

	if err := h.Students.UpdateInfo(ctx, id, req.Name, req.PhoneNumber); err != nil {
		if errors.Is(err, studentstore.ErrNotFound) {
			h.ErrLog.LogError(w, r, apierr.NotFound("Student not found."))
			return
		}
		h.ErrLog.LogServerError(w, r, "students: update failed", err, "Could not save the student.")
		return
	}

	updated, err := h.Students.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "students: reload after update failed", err, "Could not load the student.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(updated)
}

// HandleDelete handles DELETE /students/{id}. Removing a student also
// removes every attendance record they appear in.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.ErrLog.LogError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Students.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "students: delete failed", err, "Could not delete the student.")
		return
	}
	if n == 0 {
		h.ErrLog.LogError(w, r, apierr.NotFound("Student not found."))
		return
	}

	removed, err := h.Attendance.DeleteByStudent(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "students: attendance cascade failed", err, "Student deleted, but attendance cleanup failed.")
		return
	}

	h.Log.Info("student deleted",
		zap.String("student_id", id.Hex()),
		zap.Int64("attendance_removed", removed))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(deleteResponse{Deleted: true, AttendanceRemoved: removed})
}
