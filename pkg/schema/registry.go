package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrUnknownEntity = errors.New("unknown entity type")

// Registry is the fixed set of entity schemas known to the process together
// with the collection each one resolves to.
type Registry struct {
	schemas     map[string]*Schema
	collections map[string]string
	order       []string
	validator   *Validator
}

// NewRegistry resolves a collection for every schema and refuses duplicate
// entities or two entities sharing a collection.
func NewRegistry(naming NamingRule, schemas ...*Schema) (*Registry, error) {
	r := &Registry{
		schemas:     make(map[string]*Schema, len(schemas)),
		collections: make(map[string]string, len(schemas)),
		validator:   NewValidator(),
	}

	owners := make(map[string]string, len(schemas))
	for _, s := range schemas {
		if s == nil || s.Entity == "" {
			return nil, errors.New("schema with empty entity name")
		}
		if _, dup := r.schemas[s.Entity]; dup {
			return nil, fmt.Errorf("entity %s registered twice", s.Entity)
		}

		collection := naming.Resolve(s.Entity)
		if collection == "" {
			return nil, fmt.Errorf("entity %s resolves to an empty collection name", s.Entity)
		}
		if owner, taken := owners[collection]; taken {
			return nil, fmt.Errorf("entities %s and %s both resolve to collection %q", owner, s.Entity, collection)
		}

		owners[collection] = s.Entity
		r.schemas[s.Entity] = s
		r.collections[s.Entity] = collection
		r.order = append(r.order, s.Entity)
	}

	return r, nil
}

func (r *Registry) Entities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Schema(entity string) (*Schema, error) {
	s, ok := r.schemas[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return s, nil
}

func (r *Registry) Collection(entity string) (string, error) {
	collection, ok := r.collections[entity]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEntity, entity)
	}
	return collection, nil
}

func (r *Registry) Validate(entity string, raw map[string]any) (Document, error) {
	s, err := r.Schema(entity)
	if err != nil {
		return nil, err
	}
	return r.validator.Validate(s, raw)
}

// Decode validates raw as entity and fills a typed record from the result.
func Decode[T any](r *Registry, entity string, raw map[string]any) (*T, error) {
	doc, err := r.Validate(entity, raw)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", entity, err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", entity, err)
	}
	return &out, nil
}
