// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rollcallhq/rollcall/internal/app/system/stats"
	"github.com/rollcallhq/rollcall/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrEmptyBatch is returned when a reconcile batch would create a
	// session with no marks at all (nothing saved, nothing to save).
	ErrEmptyBatch = errors.New("attendance batch has no marks to save")

	// ErrConflict is returned when a concurrent writer already inserted a
	// mark the batch tried to insert.
	ErrConflict = errors.New("attendance record already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendances")}
}

// joinedRow is the aggregate output shape for listings that need student
// and program display data alongside each record.
type joinedRow struct {
	StudentID      primitive.ObjectID `bson:"student_id"`
	ProgramID      primitive.ObjectID `bson:"program_id"`
	Date           string             `bson:"date"`
	Status         string             `bson:"status"`
	StudentName    string             `bson:"student_name"`
	ProgramName    string             `bson:"program_name"`
	ProgramWeekday string             `bson:"program_weekday"`
}

func joinPipeline(match bson.M) mongo.Pipeline {
	p := mongo.Pipeline{}
	if len(match) > 0 {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	return append(p,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "students",
			"localField":   "student_id",
			"foreignField": "_id",
			"as":           "student",
		}}},
		bson.D{{Key: "$unwind", Value: "$student"}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "programs",
			"localField":   "program_id",
			"foreignField": "_id",
			"as":           "program",
		}}},
		bson.D{{Key: "$unwind", Value: "$program"}},
		bson.D{{Key: "$project", Value: bson.M{
			"student_id":      1,
			"program_id":      1,
			"date":            1,
			"status":          1,
			"student_name":    "$student.name",
			"program_name":    "$program.name",
			"program_weekday": "$program.day_of_week",
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "date", Value: -1},
			{Key: "program_name", Value: 1},
			{Key: "student_name", Value: 1},
		}}},
	)
}

func (s *Store) joined(ctx context.Context, match bson.M) ([]stats.Row, error) {
	cur, err := s.c.Aggregate(ctx, joinPipeline(match))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var raw []joinedRow
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	out := make([]stats.Row, 0, len(raw))
	for _, r := range raw {
		out = append(out, stats.Row{
			StudentID:      r.StudentID,
			ProgramID:      r.ProgramID,
			StudentName:    r.StudentName,
			ProgramName:    r.ProgramName,
			ProgramWeekday: r.ProgramWeekday,
			Date:           r.Date,
			Status:         models.Status(r.Status),
		})
	}
	return out, nil
}

// ListJoined returns every attendance record joined with student and
// program display data, newest sessions first. Records whose student or
// program has since been deleted are dropped by the join.
func (s *Store) ListJoined(ctx context.Context) ([]stats.Row, error) {
	return s.joined(ctx, nil)
}

// ListJoinedByProgram is ListJoined restricted to one program.
func (s *Store) ListJoinedByProgram(ctx context.Context, programID primitive.ObjectID) ([]stats.Row, error) {
	return s.joined(ctx, bson.M{"program_id": programID})
}

// ListJoinedBySession returns one session's joined rows.
func (s *Store) ListJoinedBySession(ctx context.Context, programID primitive.ObjectID, date string) ([]stats.Row, error) {
	return s.joined(ctx, bson.M{"program_id": programID, "date": date})
}

// Dates returns the distinct session dates recorded for a program,
// newest first.
func (s *Store) Dates(ctx context.Context, programID primitive.ObjectID) ([]string, error) {
	raw, err := s.c.Distinct(ctx, "date", bson.M{"program_id": programID})
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(raw))
	for _, v := range raw {
		if d, ok := v.(string); ok {
			dates = append(dates, d)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ListBySession returns the raw records of one session.
func (s *Store) ListBySession(ctx context.Context, programID primitive.ObjectID, date string) ([]models.AttendanceRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "student_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"program_id": programID, "date": date}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.AttendanceRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReconcileResult reports what a reconcile batch changed.
type ReconcileResult struct {
	Inserted int64
	Updated  int64
	Deleted  int64
}

// Reconcile applies one saved sheet to a session in a single ordered bulk
// write. For each student in marks:
//
//   - unset mark, existing record  -> delete
//   - unset mark, no record        -> no-op
//   - set mark, record differs     -> update status
//   - set mark, record matches     -> no-op
//   - set mark, no record          -> insert
//
// Students absent from marks are left untouched. A batch that is all
// unset against a session with no existing records returns ErrEmptyBatch.
func (s *Store) Reconcile(ctx context.Context, programID primitive.ObjectID, date string, marks map[primitive.ObjectID]models.Mark) (ReconcileResult, error) {
	existing, err := s.ListBySession(ctx, programID, date)
	if err != nil {
		return ReconcileResult{}, err
	}
	current := make(map[primitive.ObjectID]models.AttendanceRecord, len(existing))
	for _, rec := range existing {
		current[rec.StudentID] = rec
	}

	anySet := false
	for _, m := range marks {
		if m.Set {
			anySet = true
			break
		}
	}
	if len(existing) == 0 && !anySet {
		return ReconcileResult{}, ErrEmptyBatch
	}

	// Deterministic write order keeps retries and logs readable.
	ids := make([]primitive.ObjectID, 0, len(marks))
	for id := range marks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })

	now := time.Now().UTC()
	var writes []mongo.WriteModel
	for _, studentID := range ids {
		mark := marks[studentID]
		rec, have := current[studentID]

		switch {
		case !mark.Set && have:
			writes = append(writes, mongo.NewDeleteOneModel().
				SetFilter(bson.M{"_id": rec.ID}))
		case mark.Set && have && rec.Status != mark.Status:
			writes = append(writes, mongo.NewUpdateOneModel().
				SetFilter(bson.M{"_id": rec.ID}).
				SetUpdate(bson.M{"$set": bson.M{"status": mark.Status}}))
		case mark.Set && !have:
			writes = append(writes, mongo.NewInsertOneModel().
				SetDocument(models.AttendanceRecord{
					ID:        primitive.NewObjectID(),
					StudentID: studentID,
					ProgramID: programID,
					Date:      date,
					Status:    mark.Status,
					CreatedAt: now,
				}))
		}
	}

	if len(writes) == 0 {
		return ReconcileResult{}, nil
	}

	res, err := s.c.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ReconcileResult{}, ErrConflict
		}
		return ReconcileResult{}, err
	}
	return ReconcileResult{
		Inserted: res.InsertedCount,
		Updated:  res.ModifiedCount,
		Deleted:  res.DeletedCount,
	}, nil
}

// DeleteByStudent removes all attendance for a student (roster delete
// cascade). Returns the number of documents deleted.
func (s *Store) DeleteByStudent(ctx context.Context, studentID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"student_id": studentID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByProgram removes all attendance for a program (program delete
// cascade). Returns the number of documents deleted.
func (s *Store) DeleteByProgram(ctx context.Context, programID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"program_id": programID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the total number of attendance records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
