package audit

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event records a single mutating operation against the students collection.
type Event struct {
	Op        string    `bson:"op" json:"op"` // "create" | "delete"
	StudentID string    `bson:"studentId" json:"studentId"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	At        time.Time `bson:"at" json:"at"`
}

// Store persists operation events into a Mongo collection. A nil *Store is a
// valid no-op recorder, which keeps call sites free of enabled/disabled
// checks.
type Store struct {
	col *mongo.Collection
}

// NewStore returns a Store writing to col (typically the "events" collection).
func NewStore(col *mongo.Collection) *Store {
	return &Store{col: col}
}

// Record appends an event. Errors are returned for logging only; callers must
// not fail the originating request on them.
func (s *Store) Record(ctx context.Context, ev Event) error {
	if s == nil {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	if _, err := s.col.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("record audit event: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent events, newest first.
func (s *Store) Recent(ctx context.Context, limit int64) ([]Event, error) {
	if s == nil {
		return nil, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Event{}
	for cur.Next(ctx) {
		var ev Event
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, cur.Err()
}
