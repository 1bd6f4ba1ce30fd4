package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/student-records/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StudentCollection holds one document per student.
const StudentCollection = "student"

type academicDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Level   string             `bson:"level"`
	Program string             `bson:"program"`
	Status  string             `bson:"status"`
}

type studentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	HUID      string             `bson:"huid"`
	Email     string             `bson:"email"`
	Academics []academicDocument `bson:"academics"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// MongoStudentRepository stores students as documents with the academic
// records embedded, so every write touches exactly one document.
type MongoStudentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoStudentRepository creates a repository over db.student.
func NewMongoStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{
		coll: db.Collection(StudentCollection),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *MongoStudentRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, mongoError("count students", err)
	}
	return n, nil
}

// ListAll returns every student ordered by _id, which follows insertion order.
func (r *MongoStudentRepository) ListAll(ctx context.Context) ([]model.Student, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mongoError("list students", err)
	}
	defer cur.Close(ctx)

	students := []model.Student{}
	for cur.Next(ctx) {
		var doc studentDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		students = append(students, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, mongoError("list students", err)
	}
	return students, nil
}

func (r *MongoStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc studentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, mongoError("find student", err)
	}
	s := doc.toModel()
	return &s, nil
}

func (r *MongoStudentRepository) Create(ctx context.Context, s *model.Student) error {
	now := r.now()
	doc := studentDocument{
		ID:        primitive.NewObjectID(),
		Name:      s.Name,
		HUID:      s.HUID,
		Email:     s.Email,
		Academics: toAcademicDocuments(s.Academics),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return mongoError("create student", err)
	}
	*s = doc.toModel()
	return nil
}

// Update overwrites the mutable fields with one findAndModify so createdAt
// stays as stored.
func (r *MongoStudentRepository) Update(ctx context.Context, s *model.Student) error {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return ErrInvalidID
	}

	update := bson.M{"$set": bson.M{
		"name":      s.Name,
		"huid":      s.HUID,
		"email":     s.Email,
		"academics": toAcademicDocuments(s.Academics),
		"updatedAt": r.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc studentDocument
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return mongoError("update student", err)
	}
	*s = doc.toModel()
	return nil
}

func (r *MongoStudentRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return mongoError("delete student", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (d studentDocument) toModel() model.Student {
	academics := make([]model.AcademicRecord, 0, len(d.Academics))
	for _, a := range d.Academics {
		academics = append(academics, model.AcademicRecord{
			ID:      a.ID.Hex(),
			Level:   model.Level(a.Level),
			Program: a.Program,
			Status:  model.Status(a.Status),
		})
	}
	return model.Student{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		HUID:      d.HUID,
		Email:     d.Email,
		Academics: academics,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// toAcademicDocuments keeps the _id of records read from the store and
// gives new ones their own, matching the subdocument shape of existing data.
func toAcademicDocuments(records []model.AcademicRecord) []academicDocument {
	docs := make([]academicDocument, 0, len(records))
	for _, a := range records {
		oid, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			oid = primitive.NewObjectID()
		}
		docs = append(docs, academicDocument{
			ID:      oid,
			Level:   string(a.Level),
			Program: a.Program,
			Status:  string(a.Status),
		})
	}
	return docs
}

// mongoError classifies network, timeout and server selection failures
// (which wrap the context error) as ErrStoreUnavailable.
func mongoError(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) || isContextErr(err) {
		return unavailable(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
