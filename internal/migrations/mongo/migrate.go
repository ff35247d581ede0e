package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	bookingrepository "korskola/internal/bookings/repository"
	catalogrepository "korskola/internal/catalog/repository"
	"korskola/internal/migrations/mongo/validators"
	studentrepository "korskola/internal/students/repository"
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

var (
	LessonTypesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	TeoriLessonTypesIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	TeoriSessionsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "teori_lesson_type_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	StudentsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "personal_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "submission_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "teori_session_id", Value: 1}}},
		{Keys: bson.D{{Key: "payment_status", Value: 1}, {Key: "created_at", Value: 1}}},
	}

	// Locks expire on their own once expires_at has passed.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func Collections() map[string]collectionDef {
	return map[string]collectionDef{
		catalogrepository.LessonTypesCollection: {
			Indexes:   LessonTypesIndexes,
			Validator: validators.LessonTypeValidator,
		},
		catalogrepository.TeoriLessonTypesCollection: {
			Indexes:   TeoriLessonTypesIndexes,
			Validator: validators.TeoriLessonTypeValidator,
		},
		catalogrepository.TeoriSessionsCollection: {
			Indexes:   TeoriSessionsIndexes,
			Validator: validators.TeoriSessionValidator,
		},
		studentrepository.CollectionName: {
			Indexes:   StudentsIndexes,
			Validator: validators.StudentValidator,
		},
		bookingrepository.CollectionName: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		bookingrepository.LockCollectionName: {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
	}
}

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running korskola Mongo migrations on database: %s\n", dbName)

	for name, def := range Collections() {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	fmt.Printf("ℹ️ Collection %s already exists, updating validator\n", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
