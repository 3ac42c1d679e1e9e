package students

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a student id or search yields nothing.
var ErrNotFound = errors.New("student not found")

// Repository defines persistence operations for students
type Repository interface {
	Insert(ctx context.Context, s *Student) error
	List(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	DeleteByID(ctx context.Context, id string) error
	SearchByName(ctx context.Context, name string) ([]Student, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// studentDoc is the Mongo representation. The hex conversion to/from the
// API-facing string id happens only inside this repository.
type studentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Age       int                `bson:"age"`
	CreatedAt time.Time          `bson:"created_at,omitempty"`
}

func (d *studentDoc) toStudent() Student {
	return Student{ID: d.ID.Hex(), Name: d.Name, Age: d.Age, CreatedAt: d.CreatedAt}
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a repository for the given collection and
// ensures an index on "name" (the search path scans by name).
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &MongoRepository{col: col}
}

func (r *MongoRepository) Insert(ctx context.Context, s *Student) error {
	doc := studentDoc{Name: s.Name, Age: s.Age, CreatedAt: s.CreatedAt}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = oid.Hex()
	}
	return nil
}

func (r *MongoRepository) List(ctx context.Context) ([]Student, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Student{}
	for cur.Next(ctx) {
		var d studentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toStudent())
	}
	return out, cur.Err()
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// malformed ids are indistinguishable from unknown ones to callers
		return nil, ErrNotFound
	}
	var d studentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s := d.toStudent()
	return &s, nil
}

func (r *MongoRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) SearchByName(ctx context.Context, name string) ([]Student, error) {
	// case-insensitive substring match; the user input is quoted before it
	// becomes part of the pattern
	pattern := ".*" + regexp.QuoteMeta(name) + ".*"
	filter := bson.M{"name": primitive.Regex{Pattern: pattern, Options: "i"}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Student{}
	for cur.Next(ctx) {
		var d studentDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.toStudent())
	}
	return out, cur.Err()
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.col.Database().RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
