// Package migrations prepares the MongoDB database for the band site: one
// collection per registered entity, guarded by a $jsonSchema validator
// generated from the Schema Registry, plus the indexes the read paths use.
package migrations

import (
	"context"
	"fmt"

	"bandsite/pkg/logger"
	"bandsite/pkg/schema"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var entityIndexes = map[string][]mongo.IndexModel{
	schema.EntitySong: {
		{Keys: bson.D{{Key: "album_id", Value: 1}}},
	},
	schema.EntityBookingRequest: {
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}}},
	},
}

type CollectionPlan struct {
	Entity    string
	Name      string
	Validator bson.M
	Indexes   []mongo.IndexModel
}

// Plan lists the collections to ensure, in registry order.
func Plan(registry *schema.Registry) ([]CollectionPlan, error) {
	var plans []CollectionPlan
	for _, entity := range registry.Entities() {
		s, err := registry.Schema(entity)
		if err != nil {
			return nil, err
		}
		name, err := registry.Collection(entity)
		if err != nil {
			return nil, err
		}
		plans = append(plans, CollectionPlan{
			Entity:    entity,
			Name:      name,
			Validator: s.JSONSchema(),
			Indexes:   entityIndexes[entity],
		})
	}
	return plans, nil
}

func Run(ctx context.Context, db *mongo.Database, registry *schema.Registry, log *logger.Logger) error {
	plans, err := Plan(registry)
	if err != nil {
		return err
	}

	log.Info("Running MongoDB migrations", "database", db.Name(), "collections", len(plans))

	for _, plan := range plans {
		if err := ensureCollection(ctx, db, plan, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", plan.Name, err)
		}
		if err := ensureIndexes(ctx, db, plan, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", plan.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, plan CollectionPlan, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: plan.Name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", plan.Name, "entity", plan.Entity)
		opts := options.CreateCollection().SetValidator(plan.Validator)
		if err := db.CreateCollection(ctx, plan.Name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", plan.Name, err)
		}
		return nil
	}

	log.Info("Collection exists, updating validator", "collection", plan.Name)
	command := bson.D{
		{Key: "collMod", Value: plan.Name},
		{Key: "validator", Value: plan.Validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		// Existing data may predate the validator; keep going.
		log.Warn("Failed updating validator", "collection", plan.Name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, plan CollectionPlan, log *logger.Logger) error {
	if len(plan.Indexes) == 0 {
		return nil
	}
	names, err := db.Collection(plan.Name).Indexes().CreateMany(ctx, plan.Indexes)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", plan.Name, "indexes", names)
	return nil
}
