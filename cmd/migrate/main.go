package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	mongoMigration "korskola/internal/migrations/mongo"
	"korskola/pkg/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The migrator only needs Mongo, so it reads its two settings directly instead
// of going through config.Load and its service-level validation.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoURI := getEnv(config.EnvMongoURI, config.DefaultMongoURI)
	dbName := getEnv(config.EnvMongoDatabaseName, config.DefaultMongoDatabaseName)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("failed to disconnect from MongoDB: %v", err)
		}
	}()

	fmt.Println("Connected to MongoDB")

	if err := mongoMigration.RunMigration(ctx, client, dbName); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	fmt.Println("🎉 Migration completed.")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
