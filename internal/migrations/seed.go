package migrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bandsite/pkg/logger"
	"bandsite/pkg/sanitizer"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
)

// SeedFile maps an entity name to the raw documents to insert, e.g.
// {"BandMember": [{"name": "Ana", "role": "Vocals"}]}. A string "_id" is
// kept so songs can reference their album by a stable id.
type SeedFile map[string][]map[string]any

var seedSanitizers = map[string]sanitizer.Fields{
	schema.EntityBandMember:     sanitizer.BandMemberFields,
	schema.EntityAlbum:          sanitizer.AlbumFields,
	schema.EntitySong:           sanitizer.SongFields,
	schema.EntityBookingRequest: sanitizer.BookingFields,
}

func LoadSeed(r io.Reader) (SeedFile, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var seed SeedFile
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return seed, nil
}

type SeedError struct {
	Entity string
	Index  int
	Err    error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Entity, e.Index, e.Err)
}

func (e *SeedError) Unwrap() error {
	return e.Err
}

type seedItem struct {
	collection string
	doc        schema.Document
}

// Seed validates every document first and inserts nothing unless all of
// them pass. It returns the number of documents inserted per collection.
func Seed(ctx context.Context, docs store.DocumentStore, registry *schema.Registry, seed SeedFile, log *logger.Logger) (map[string]int, error) {
	for entity := range seed {
		if _, err := registry.Schema(entity); err != nil {
			return nil, &SeedError{Entity: entity, Index: -1, Err: err}
		}
	}

	var items []seedItem
	for _, entity := range registry.Entities() {
		raws, ok := seed[entity]
		if !ok {
			continue
		}
		collection, err := registry.Collection(entity)
		if err != nil {
			return nil, err
		}
		fields := seedSanitizers[entity]

		for i, raw := range raws {
			if fields != nil {
				raw = fields.Apply(raw)
			}
			doc, err := registry.Validate(entity, raw)
			if err != nil {
				return nil, &SeedError{Entity: entity, Index: i, Err: err}
			}
			if id, ok := raw["_id"].(string); ok && id != "" {
				doc["_id"] = id
			}
			items = append(items, seedItem{collection: collection, doc: doc})
		}
	}

	inserted := make(map[string]int)
	for _, item := range items {
		id, err := docs.CreateDocument(ctx, item.collection, item.doc)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed %s: %w", item.collection, err)
		}
		inserted[item.collection]++
		log.Debug("Seeded document", "collection", item.collection, "id", id)
	}

	log.Info("Seed data inserted", "counts", inserted)
	return inserted, nil
}
