package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/rollcallhq/rollcall/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateStudent inserts a roster student and returns it with its ID.
func (f *Fixtures) CreateStudent(ctx context.Context, name, phone string) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	st := models.Student{
		ID:          primitive.NewObjectID(),
		Name:        name,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("students").InsertOne(ctx, st); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return st
}

// CreateProgram inserts a program and returns it with its ID.
func (f *Fixtures) CreateProgram(ctx context.Context, name, dayOfWeek, timeOfDay string) models.Program {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Program{
		ID:        primitive.NewObjectID(),
		Name:      name,
		DayOfWeek: dayOfWeek,
		Time:      timeOfDay,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("programs").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test program: %v", err)
	}
	return p
}

// CreateAttendance inserts one attendance record for a session.
func (f *Fixtures) CreateAttendance(ctx context.Context, studentID, programID primitive.ObjectID, date string, status models.Status) models.AttendanceRecord {
	f.t.Helper()

	rec := models.AttendanceRecord{
		ID:        primitive.NewObjectID(),
		StudentID: studentID,
		ProgramID: programID,
		Date:      date,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("attendances").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create test attendance record: %v", err)
	}
	return rec
}
