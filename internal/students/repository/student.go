package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	studentserrors "korskola/internal/students/errors"
	"korskola/pkg/config"
	mongotx "korskola/pkg/db/mongo"
	"korskola/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Students"
)

type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id string) (*model.Student, error)
	// Search matches every whitespace separated term against name, email or
	// personal number, case-insensitively.
	Search(ctx context.Context, query string, limit int) ([]*model.Student, error)
}

type mongoStudentRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStudentRepository(cfg *config.Config) StudentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStudentRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoStudentRepository) Create(ctx context.Context, student *model.Student) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	student.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, student)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return studentserrors.ErrDuplicatePersonalNumber
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		student.ID = oid.Hex()
	}
	return nil
}

func (r *mongoStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", studentserrors.ErrInvalidID, id)
	}

	var student model.Student
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&student)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, studentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}

	return &student, nil
}

func (r *mongoStudentRepository) Search(ctx context.Context, query string, limit int) ([]*model.Student, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, searchFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search students: %w", err)
	}
	defer cursor.Close(ctx)

	students := []*model.Student{}
	if err = cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("failed to decode students: %w", err)
	}

	return students, nil
}

func searchFilter(query string) bson.M {
	terms := strings.Fields(query)
	and := make(bson.A, 0, len(terms))

	for _, term := range terms {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		and = append(and, bson.M{"$or": bson.A{
			bson.M{"first_name": pattern},
			bson.M{"last_name": pattern},
			bson.M{"email": pattern},
			bson.M{"personal_number": pattern},
		}})
	}

	if len(and) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": and}
}
