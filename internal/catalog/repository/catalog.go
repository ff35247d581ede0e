package repository

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "korskola/internal/catalog/errors"
	"korskola/pkg/config"
	mongotx "korskola/pkg/db/mongo"
	"korskola/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	LessonTypesCollection      = "Lesson_types"
	TeoriLessonTypesCollection = "Teori_lesson_types"
	TeoriSessionsCollection    = "Teori_sessions"
)

type CatalogRepository interface {
	ActiveLessonTypes(ctx context.Context) ([]model.LessonType, error)
	ActiveTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, error)
	// ActiveSessions returns active sessions of the given types dated fromDate or later.
	ActiveSessions(ctx context.Context, typeIDs []string, fromDate string) ([]model.TeoriSession, error)
	FindLessonType(ctx context.Context, id string) (*model.LessonType, error)
	FindTeoriLessonType(ctx context.Context, id string) (*model.TeoriLessonType, error)
	FindTeoriSession(ctx context.Context, id string) (*model.TeoriSession, error)
}

type mongoCatalogRepository struct {
	cfg              *config.Config
	lessonTypes      *mongo.Collection
	teoriLessonTypes *mongo.Collection
	teoriSessions    *mongo.Collection
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCatalogRepository{
		cfg:              cfg,
		lessonTypes:      db.Collection(LessonTypesCollection),
		teoriLessonTypes: db.Collection(TeoriLessonTypesCollection),
		teoriSessions:    db.Collection(TeoriSessionsCollection),
	}
}

func (r *mongoCatalogRepository) ActiveLessonTypes(ctx context.Context) ([]model.LessonType, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.lessonTypes.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find lesson types: %w", err)
	}
	return decodeEach[model.LessonType](ctx, r.cfg, cursor, LessonTypesCollection)
}

func (r *mongoCatalogRepository) ActiveTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, error) {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.teoriLessonTypes.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find teori lesson types: %w", err)
	}
	return decodeEach[model.TeoriLessonType](ctx, r.cfg, cursor, TeoriLessonTypesCollection)
}

func (r *mongoCatalogRepository) ActiveSessions(ctx context.Context, typeIDs []string, fromDate string) ([]model.TeoriSession, error) {
	if len(typeIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"active":               true,
		"teori_lesson_type_id": bson.M{"$in": typeIDs},
		"date":                 bson.M{"$gte": fromDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})

	cursor, err := r.teoriSessions.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find teori sessions: %w", err)
	}
	return decodeEach[model.TeoriSession](ctx, r.cfg, cursor, TeoriSessionsCollection)
}

func (r *mongoCatalogRepository) FindLessonType(ctx context.Context, id string) (*model.LessonType, error) {
	var lt model.LessonType
	if err := r.findByID(ctx, r.lessonTypes, id, &lt); err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *mongoCatalogRepository) FindTeoriLessonType(ctx context.Context, id string) (*model.TeoriLessonType, error) {
	var tt model.TeoriLessonType
	if err := r.findByID(ctx, r.teoriLessonTypes, id, &tt); err != nil {
		return nil, err
	}
	return &tt, nil
}

func (r *mongoCatalogRepository) FindTeoriSession(ctx context.Context, id string) (*model.TeoriSession, error) {
	var s model.TeoriSession
	if err := r.findByID(ctx, r.teoriSessions, id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoCatalogRepository) findByID(ctx context.Context, coll *mongo.Collection, id string, out any) error {
	ctx, cancel := mongotx.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, id)
	}

	err = coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return catalogerrors.ErrNotFound
		}
		return fmt.Errorf("failed to find %s entry: %w", coll.Name(), err)
	}
	return nil
}

// decodeEach decodes documents one by one so a single malformed document is
// skipped instead of failing the whole listing.
func decodeEach[T any](ctx context.Context, cfg *config.Config, cursor *mongo.Cursor, collection string) ([]T, error) {
	defer cursor.Close(ctx)

	out := []T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			cfg.Log.Warn("Skipping malformed catalog document",
				"collection", collection,
				"id", cursor.Current.Lookup("_id").String(),
				"error", err,
			)
			continue
		}
		out = append(out, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	return out, nil
}
