package main

import (
	"context"
	"flag"
	"os"
	"time"

	"bandsite/internal/migrations"
	"bandsite/pkg/config"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
)

const JobName = "mongo-migration"

func main() {
	seedPath := flag.String("seed", "", "optional JSON file of documents to insert after migrating")
	timeout := flag.Duration("timeout", 120*time.Second, "overall deadline for the job")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := config.Load(JobName)
	if !cfg.StoreConfigured() {
		cfg.Log.Fatal("DATABASE_URL must be set to run migrations")
	}
	cfg.Log.Info("Starting Mongo migration job")

	registry, err := schema.Default()
	if err != nil {
		cfg.Log.Fatal("Invalid schema registry", "error", err)
	}

	conn := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout, cfg.Log)
	defer func() {
		if err := conn.Close(context.Background()); err != nil {
			cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	db, ok := conn.Database()
	if !ok {
		cfg.Log.Fatal("MongoDB unavailable", "reason", conn.Reason())
	}

	if err := migrations.Run(ctx, db, registry, cfg.Log); err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	if *seedPath != "" {
		seedData(ctx, cfg, conn, registry, *seedPath)
	}

	cfg.Log.Info("Migration completed successfully")
}

func seedData(ctx context.Context, cfg *config.Config, conn store.Connection, registry *schema.Registry, path string) {
	file, err := os.Open(path)
	if err != nil {
		cfg.Log.Fatal("Failed to open seed file", "path", path, "error", err)
	}
	defer file.Close()

	seed, err := migrations.LoadSeed(file)
	if err != nil {
		cfg.Log.Fatal("Failed to read seed file", "path", path, "error", err)
	}

	docs := store.New(conn, store.Options{
		ReadTimeout:  cfg.StoreReadTimeout,
		WriteTimeout: cfg.StoreWriteTimeout,
	}, cfg.Log)
	if _, err := migrations.Seed(ctx, docs, registry, seed, cfg.Log); err != nil {
		cfg.Log.Fatal("Seeding failed", "path", path, "error", err)
	}
}
