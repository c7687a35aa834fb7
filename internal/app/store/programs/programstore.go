// internal/app/store/programs/programstore.go
package programstore

import (
	"context"
	"errors"
	"time"

	"github.com/rollcallhq/rollcall/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("program not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("programs")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Program, error) {
	var p models.Program
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Program{}, ErrNotFound
		}
		return models.Program{}, err
	}
	return p, nil
}

// List returns all programs sorted by name, then ID for a stable order.
func (s *Store) List(ctx context.Context) ([]models.Program, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Program
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// UpdateInfo replaces the program's editable fields. Returns ErrNotFound
// when no program has the given ID.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, dayOfWeek, timeOfDay string) error {
	set := bson.M{
		"name":        name,
		"day_of_week": dayOfWeek,
		"time":        timeOfDay,
		"updated_at":  time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a program by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of programs.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
