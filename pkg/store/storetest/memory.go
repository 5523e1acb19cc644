// Package storetest provides an in-memory store.DocumentStore for tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bandsite/pkg/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory mimics the MongoDB store: insertion order, exact-match filters,
// empty reads while unavailable.
type Memory struct {
	mu          sync.Mutex
	collections map[string][]store.Document
	unavailable bool

	// QueryErr, when set, is returned from every read as a store.QueryError.
	QueryErr error
	// InsertErr, when set, is returned from every write.
	InsertErr error
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]store.Document)}
}

// SetUnavailable switches the store between connected and unavailable.
func (m *Memory) SetUnavailable(unavailable bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = unavailable
}

// Seed inserts docs directly, bypassing InsertErr.
func (m *Memory) Seed(collection string, docs ...store.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, doc := range docs {
		if _, ok := doc["_id"]; !ok {
			doc["_id"] = primitive.NewObjectID()
		}
		m.collections[collection] = append(m.collections[collection], doc)
	}
}

func (m *Memory) Documents(collection string) []store.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]store.Document, len(m.collections[collection]))
	copy(out, m.collections[collection])
	return out
}

func (m *Memory) GetDocuments(_ context.Context, collection string, filter store.Filter, limit int) ([]store.Document, error) {
	if collection == "" {
		return nil, store.ErrEmptyCollection
	}
	if limit <= 0 {
		return nil, store.ErrInvalidLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.QueryErr != nil {
		return nil, &store.QueryError{Op: "find", Collection: collection, Err: m.QueryErr}
	}
	out := []store.Document{}
	if m.unavailable {
		return out, nil
	}

	for _, doc := range m.collections[collection] {
		if len(out) == limit {
			break
		}
		if matches(doc, filter) {
			out = append(out, clone(doc))
		}
	}
	return out, nil
}

func (m *Memory) CreateDocument(_ context.Context, collection string, doc any) (string, error) {
	if collection == "" {
		return "", store.ErrEmptyCollection
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return "", store.ErrStorageUnavailable
	}
	if m.InsertErr != nil {
		return "", m.InsertErr
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", &store.QueryError{Op: "insert", Collection: collection, Err: err}
	}
	var stored store.Document
	if err := bson.Unmarshal(raw, &stored); err != nil {
		return "", &store.QueryError{Op: "insert", Collection: collection, Err: err}
	}
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = primitive.NewObjectID()
	}

	m.collections[collection] = append(m.collections[collection], stored)
	return store.IDString(stored["_id"]), nil
}

func (m *Memory) Diagnose(context.Context) store.Diagnostics {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return store.Diagnostics{State: store.StateUnavailable, Reason: store.ErrNotConfigured}
	}
	names := make([]string, 0, len(m.collections))
	for name := range m.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return store.Diagnostics{State: store.StateConnected, DatabaseName: "memory", Collections: names}
}

func (m *Memory) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unavailable {
		return fmt.Errorf("%w: memory store switched off", store.ErrStorageUnavailable)
	}
	return nil
}

func matches(doc store.Document, filter store.Filter) bool {
	for key, want := range filter {
		if got, ok := doc[key]; !ok || got != want {
			return false
		}
	}
	return true
}

func clone(doc store.Document) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
