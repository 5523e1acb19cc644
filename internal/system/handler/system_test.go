package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bandsite/pkg/config"
	"bandsite/pkg/logger"
	"bandsite/pkg/store"
	"bandsite/pkg/store/storetest"

	"github.com/julienschmidt/httprouter"
)

type stubStore struct {
	store.DocumentStore
	diag     store.Diagnostics
	pingErr  error
	panicMsg string
}

func (s *stubStore) Diagnose(context.Context) store.Diagnostics {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.diag
}

func (s *stubStore) Ping(context.Context) error { return s.pingErr }

func newRouter(docs store.DocumentStore, uri string) *httprouter.Router {
	return newRouterWithConfig(docs, &config.Config{
		Log:               logger.Discard(),
		MongoURI:          uri,
		MongoDatabaseName: "band",
		DatabaseNameSet:   true,
	})
}

func newRouterWithConfig(docs store.DocumentStore, cfg *config.Config) *httprouter.Router {
	h := NewSystemHandler(docs, cfg)
	router := httprouter.New()
	h.RegisterRoutes(router)
	h.RegisterHealthRoutes(router)
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestStaticRoutes(t *testing.T) {
	router := newRouter(storetest.NewMemory(), "")

	tests := []struct {
		path string
		want string
	}{
		{"/", RootMessage},
		{"/api/hello", HelloMessage},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(router, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["message"] != tt.want {
				t.Errorf("expected %q, got %q", tt.want, body["message"])
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name           string
		store          store.DocumentStore
		uri            string
		wantDatabase   string
		wantStatus     string
		wantURL        string
		wantCollection int
	}{
		{
			name:         "not configured",
			store:        &stubStore{diag: store.Diagnostics{State: store.StateUnavailable}},
			wantDatabase: DatabaseNotAvailable,
			wantStatus:   StatusNotConnected,
			wantURL:      ValueNotSet,
		},
		{
			name: "connected",
			store: &stubStore{diag: store.Diagnostics{
				State:        store.StateConnected,
				DatabaseName: "band",
				Collections:  []string{"album", "bandmember"},
			}},
			uri:            "mongodb://user:secret@db:27017",
			wantDatabase:   DatabaseWorking,
			wantStatus:     StatusConnected,
			wantURL:        ValueSet,
			wantCollection: 2,
		},
		{
			name: "listing fails",
			store: &stubStore{diag: store.Diagnostics{
				State:  store.StateConnected,
				Reason: errors.New("not authorized on band to execute command listCollections and more"),
			}},
			uri:          "mongodb://db:27017",
			wantDatabase: "connected but error: not authorized on band to execute command listColl",
			wantStatus:   StatusConnected,
			wantURL:      ValueSet,
		},
		{
			name:         "panic degrades",
			store:        &stubStore{panicMsg: "boom"},
			wantDatabase: "error: boom",
			wantStatus:   StatusNotConnected,
			wantURL:      ValueNotSet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newRouter(tt.store, tt.uri), "/test")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var body DiagnosticsResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Database != tt.wantDatabase {
				t.Errorf("database = %q, want %q", body.Database, tt.wantDatabase)
			}
			if body.ConnectionStatus != tt.wantStatus {
				t.Errorf("connection_status = %q, want %q", body.ConnectionStatus, tt.wantStatus)
			}
			if body.DatabaseURL != tt.wantURL {
				t.Errorf("database_url = %q, want %q", body.DatabaseURL, tt.wantURL)
			}
			if body.Collections == nil || len(body.Collections) != tt.wantCollection {
				t.Errorf("unexpected collections %v", body.Collections)
			}
			if body.Backend != "running" || body.DatabaseName != ValueSet {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestDiagnostics_DefaultedDatabaseNameIsNotSet(t *testing.T) {
	mem := storetest.NewMemory()
	router := newRouterWithConfig(mem, &config.Config{
		Log:               logger.Discard(),
		MongoURI:          "mongodb://db:27017",
		MongoDatabaseName: config.DefaultMongoDatabaseName,
	})

	rec := get(router, "/test")
	var body DiagnosticsResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.DatabaseName != ValueNotSet {
		t.Errorf("database_name = %q, want %q", body.DatabaseName, ValueNotSet)
	}
	if body.ConnectionStatus != StatusConnected || body.DatabaseURL != ValueSet {
		t.Errorf("unexpected body %+v", body)
	}
}

func TestReady(t *testing.T) {
	mem := storetest.NewMemory()
	router := newRouter(mem, "mongodb://db:27017")

	if rec := get(router, "/ready"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 while connected, got %d", rec.Code)
	}
	if rec := get(router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d", rec.Code)
	}

	mem.SetUnavailable(true)
	if rec := get(router, "/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 while unavailable, got %d", rec.Code)
	}
	if rec := get(router, "/health"); rec.Code != http.StatusOK {
		t.Errorf("liveness must not depend on the store, got %d", rec.Code)
	}
}
