package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"bandsite/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	DefaultReadTimeout      = 5 * time.Second
	DefaultWriteTimeout     = 10 * time.Second
	DefaultMaxWriteAttempts = 3
	maxListedCollections    = 10
)

type Document = bson.M

// Filter is an exact-match filter: every key must equal its value.
type Filter map[string]any

type DocumentStore interface {
	GetDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error)
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
	Diagnose(ctx context.Context) Diagnostics
	Ping(ctx context.Context) error
}

type Options struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MaxWriteAttempts int
	InitialBackoff   time.Duration
}

func (o Options) withDefaults() Options {
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = DefaultReadTimeout
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = DefaultWriteTimeout
	}
	if o.MaxWriteAttempts <= 0 {
		o.MaxWriteAttempts = DefaultMaxWriteAttempts
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = 100 * time.Millisecond
	}
	return o
}

// Diagnostics describes the store for the connectivity report.
type Diagnostics struct {
	State        State
	DatabaseName string
	Collections  []string
	Reason       error
}

type mongoStore struct {
	conn Connection
	opts Options
	log  *logger.Logger
}

func New(conn Connection, opts Options, log *logger.Logger) DocumentStore {
	return &mongoStore{
		conn: conn,
		opts: opts.withDefaults(),
		log:  log,
	}
}

func (s *mongoStore) GetDocuments(ctx context.Context, collection string, filter Filter, limit int) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	query, err := filter.toBSON()
	if err != nil {
		return nil, &QueryError{Op: "find", Collection: collection, Err: err}
	}

	db, ok := s.conn.Database()
	if !ok {
		s.log.Warn("Storage unavailable, returning empty result",
			"collection", collection,
			"reason", s.conn.Reason(),
		)
		return []Document{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := db.Collection(collection).Find(ctx, query, opts)
	if err != nil {
		return s.readFailure(collection, err)
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return s.readFailure(collection, err)
	}
	return docs, nil
}

func (s *mongoStore) readFailure(collection string, err error) ([]Document, error) {
	if isUnreachable(err) {
		s.log.Warn("Storage unreachable, returning empty result",
			"collection", collection,
			"error", err,
		)
		return []Document{}, nil
	}
	s.log.Error("Failed to query collection",
		"collection", collection,
		"error", err,
	)
	return nil, &QueryError{Op: "find", Collection: collection, Err: err}
}

// CreateDocument inserts doc and returns its id as a string. A generated id
// is assigned before the first attempt, so a retried insert that finds that
// id already present is treated as committed. A caller-supplied id gets no
// such shortcut: it may belong to another document.
func (s *mongoStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}

	db, ok := s.conn.Database()
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, s.conn.Reason())
	}

	record, id, generated, err := withID(doc)
	if err != nil {
		return "", &QueryError{Op: "insert", Collection: collection, Err: err}
	}

	// The write outlives the caller's context so a disconnecting client cannot
	// leave the insert half-attempted.
	parent := context.WithoutCancel(ctx)
	coll := db.Collection(collection)
	attempt := 0

	operation := func() error {
		attempt++
		ctx, cancel := context.WithTimeout(parent, s.opts.WriteTimeout)
		defer cancel()

		_, err := coll.InsertOne(ctx, record)
		switch {
		case err == nil:
			return nil
		case generated && attempt > 1 && mongo.IsDuplicateKeyError(err):
			s.log.Info("Retried insert found existing document",
				"collection", collection,
				"id", id,
			)
			return nil
		case isTransient(err):
			s.log.Warn("Insert failed, will retry",
				"collection", collection,
				"attempt", attempt,
				"error", err,
			)
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	if err := backoff.Retry(operation, s.backoff()); err != nil {
		if isUnreachable(err) {
			s.log.Error("Storage unreachable during insert",
				"collection", collection,
				"attempts", attempt,
				"error", err,
			)
			return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		s.log.Error("Failed to insert document",
			"collection", collection,
			"error", err,
		)
		return "", &QueryError{Op: "insert", Collection: collection, Err: err}
	}

	s.log.Debug("Document inserted", "collection", collection, "id", id)
	return id, nil
}

func (s *mongoStore) backoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.InitialBackoff
	b.MaxInterval = s.opts.WriteTimeout
	b.MaxElapsedTime = s.opts.WriteTimeout * time.Duration(s.opts.MaxWriteAttempts)
	return backoff.WithMaxRetries(b, uint64(s.opts.MaxWriteAttempts-1))
}

// Diagnose never fails; problems are reported in the result.
func (s *mongoStore) Diagnose(ctx context.Context) Diagnostics {
	diag := Diagnostics{State: s.conn.State(), Reason: s.conn.Reason()}

	db, ok := s.conn.Database()
	if !ok {
		return diag
	}
	diag.DatabaseName = db.Name()

	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()

	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		diag.Reason = err
		return diag
	}
	sort.Strings(names)
	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	diag.Collections = names
	return diag
}

func (s *mongoStore) Ping(ctx context.Context) error {
	if s.conn.client == nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, s.conn.Reason())
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.ReadTimeout)
	defer cancel()
	return s.conn.client.Ping(ctx, readpref.Primary())
}

func (f Filter) toBSON() (bson.D, error) {
	keys := make([]string, 0, len(f))
	for key := range f {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	query := bson.D{}
	for _, key := range keys {
		if key == "" || strings.HasPrefix(key, "$") {
			return nil, fmt.Errorf("%w: bad field name %q", ErrInvalidFilter, key)
		}
		value := f[key]
		switch value.(type) {
		case nil, string, bool, int, int32, int64, float64, primitive.ObjectID:
		default:
			return nil, fmt.Errorf("%w: field %q has %T", ErrInvalidFilter, key, value)
		}
		query = append(query, bson.E{Key: key, Value: value})
	}
	return query, nil
}

// withID converts doc to an ordered document with an _id as its first
// element, generating one when doc has none. The bool reports whether the
// _id was generated.
func withID(doc any) (bson.D, string, bool, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, "", false, fmt.Errorf("encode document: %w", err)
	}
	var fields bson.D
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, "", false, fmt.Errorf("decode document: %w", err)
	}

	for _, field := range fields {
		if field.Key == "_id" {
			return fields, IDString(field.Value), false, nil
		}
	}

	oid := primitive.NewObjectID()
	return append(bson.D{{Key: "_id", Value: oid}}, fields...), oid.Hex(), true, nil
}

// IDString renders a stored identifier as text.
func IDString(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// StringifyID replaces a document's _id with its string form in place.
func StringifyID(doc Document) Document {
	if id, ok := doc["_id"]; ok {
		doc["_id"] = IDString(id)
	}
	return doc
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable)
}
