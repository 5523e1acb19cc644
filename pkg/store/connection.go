package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bandsite/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type State int

const (
	StateUnavailable State = iota
	StateConnected
)

func (s State) String() string {
	if s == StateConnected {
		return "connected"
	}
	return "unavailable"
}

// Connection is the process-wide store handle. It is either connected (and
// carries a database) or unavailable (and carries the reason).
type Connection struct {
	state  State
	client *mongo.Client
	db     *mongo.Database
	reason error
}

func Connected(client *mongo.Client, db *mongo.Database) Connection {
	return Connection{state: StateConnected, client: client, db: db}
}

func Unavailable(reason error) Connection {
	if reason == nil {
		reason = ErrStorageUnavailable
	}
	return Connection{state: StateUnavailable, reason: reason}
}

func (c Connection) State() State {
	return c.state
}

func (c Connection) Database() (*mongo.Database, bool) {
	if c.state != StateConnected || c.db == nil {
		return nil, false
	}
	return c.db, true
}

func (c Connection) Reason() error {
	return c.reason
}

// Connect dials and pings the store once. It never fails: a missing URI or an
// unreachable server yields an unavailable Connection so the process can keep
// serving degraded responses.
func Connect(ctx context.Context, uri, database string, timeout time.Duration, log *logger.Logger) Connection {
	if uri == "" {
		log.Warn("Storage not configured, starting with storage unavailable")
		return Unavailable(ErrNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Error("Failed to connect to MongoDB, storage unavailable", "error", err)
		return Unavailable(fmt.Errorf("connect: %w", err))
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Error("Failed to ping MongoDB, storage unavailable", "error", err)
		_ = client.Disconnect(context.Background())
		return Unavailable(fmt.Errorf("ping: %w", err))
	}

	log.Info("Successfully connected to MongoDB", "database", database)
	return Connected(client, client.Database(database))
}

func (c Connection) Close(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return err
	}
	return nil
}
