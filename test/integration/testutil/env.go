// Package testutil starts the full band site stack in-process for
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"bandsite/internal/booking/events"
	bookinghandler "bandsite/internal/booking/handler"
	bookingservice "bandsite/internal/booking/service"
	contenthandler "bandsite/internal/content/handler"
	contentservice "bandsite/internal/content/service"
	systemhandler "bandsite/internal/system/handler"
	"bandsite/pkg/app"
	"bandsite/pkg/client"
	"bandsite/pkg/config"
	"bandsite/pkg/logger"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
	"bandsite/pkg/store/storetest"
)

// EnvMongoURI points the suite at a real MongoDB. Without it the suite runs
// against the in-memory store.
const EnvMongoURI = "TEST_MONGO_URI"

type Env struct {
	Server   *httptest.Server
	Client   *client.BandClient
	Store    store.DocumentStore
	Registry *schema.Registry
	// Memory is nil when the suite runs against MongoDB.
	Memory *storetest.Memory
}

// NewEnv wires the same handlers and middleware as cmd/bandsite.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	registry, err := schema.Default()
	if err != nil {
		t.Fatalf("schema.Default() error = %v", err)
	}

	cfg := testConfig()
	env := &Env{Registry: registry}
	env.Store, env.Memory = newStore(t, cfg)

	contentService := contentservice.NewContentService(env.Store, registry, cfg)
	bookingService := bookingservice.NewBookingService(env.Store, registry, events.NewNoopPublisher(), cfg)
	system := systemhandler.NewSystemHandler(env.Store, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(system,
		system,
		contenthandler.NewContentHandler(contentService, cfg.MaxListLimit, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)

	env.Server = httptest.NewServer(serverApp.Handler())
	env.Client = client.NewBandClient(env.Server.URL)
	t.Cleanup(func() {
		env.Server.Close()
		serverApp.StopWorkers()
	})
	return env
}

func testConfig() *config.Config {
	return &config.Config{
		MongoURI:           os.Getenv(EnvMongoURI),
		MongoDatabaseName:  fmt.Sprintf("bandsite_it_%d", time.Now().UnixNano()),
		MongoConnTimeout:   5 * time.Second,
		Port:               "0",
		RateLimitRPS:       1000,
		RateLimitBurst:     1000,
		RequestTimeout:     10 * time.Second,
		IdempotencyTTL:     time.Minute,
		MaxRequestSize:     config.DefaultMaxRequestSize,
		StoreReadTimeout:   5 * time.Second,
		StoreWriteTimeout:  5 * time.Second,
		MaxListLimit:       config.DefaultMaxListLimit,
		CORSAllowedOrigins: []string{"*"},
		Log:                logger.Discard(),
	}
}

func newStore(t *testing.T, cfg *config.Config) (store.DocumentStore, *storetest.Memory) {
	t.Helper()

	if cfg.MongoURI == "" {
		mem := storetest.NewMemory()
		return mem, mem
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnTimeout)
	defer cancel()

	conn := store.Connect(ctx, cfg.MongoURI, cfg.MongoDatabaseName, cfg.MongoConnTimeout, cfg.Log)
	db, ok := conn.Database()
	if !ok {
		t.Skipf("MongoDB at %s unavailable: %v", config.RedactMongoURI(cfg.MongoURI), conn.Reason())
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = conn.Close(ctx)
	})

	return store.New(conn, store.Options{
		ReadTimeout:  cfg.StoreReadTimeout,
		WriteTimeout: cfg.StoreWriteTimeout,
	}, cfg.Log), nil
}
