package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bandsite/pkg/model"
)

func newTestServer(t *testing.T) (*httptest.Server, *http.Request) {
	t.Helper()
	last := &http.Request{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/band/members", func(w http.ResponseWriter, r *http.Request) {
		*last = *r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"_id":"m1","name":"Ana","role":"Vocals","instrument":"Voice"}]}`))
	})
	mux.HandleFunc("/api/music/songs", func(w http.ResponseWriter, r *http.Request) {
		*last = *r
		_, _ = w.Write([]byte(`{"items":[{"_id":"s1","title":"Intro","album_id":"a1","duration_sec":215}]}`))
	})
	mux.HandleFunc("/api/booking", func(w http.ResponseWriter, r *http.Request) {
		*last = *r
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["message"] == "short" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"Booking request validation failed","code":"VALIDATION_ERROR","details":{"errors":[{"field":"message"}]}}`))
			return
		}
		if _, ok := body["status"]; ok {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","id":"b1"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, last
}

func TestBandClient_Members(t *testing.T) {
	server, last := newTestServer(t)
	c := NewBandClient(server.URL + "/")

	members, err := c.Members(context.Background(), 5)
	if err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	if len(members) != 1 || members[0].ID != "m1" || members[0].Instrument == nil || *members[0].Instrument != "Voice" {
		t.Errorf("unexpected members %+v", members)
	}
	if got := last.URL.Query().Get("limit"); got != "5" {
		t.Errorf("expected limit=5, got %q", got)
	}

	if _, err := c.Members(context.Background(), 0); err != nil {
		t.Fatalf("Members() error = %v", err)
	}
	if last.URL.RawQuery != "" {
		t.Errorf("a zero limit must leave the query empty, got %q", last.URL.RawQuery)
	}
}

func TestBandClient_Songs(t *testing.T) {
	server, last := newTestServer(t)

	songs, err := NewBandClient(server.URL).Songs(context.Background(), "a1", 0)
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if last.URL.Query().Get("album_id") != "a1" {
		t.Errorf("album_id not sent: %q", last.URL.RawQuery)
	}
	if len(songs) != 1 || songs[0].DurationSec == nil || *songs[0].DurationSec != 215 {
		t.Errorf("unexpected songs %+v", songs)
	}
}

func TestBandClient_RequestBooking(t *testing.T) {
	server, last := newTestServer(t)
	c := NewBandClient(server.URL)
	location := "Porto"

	result, err := c.RequestBooking(context.Background(), model.BookingRequest{
		Name:          "Ana",
		Email:         "ana@example.com",
		Message:       "Please play our wedding.",
		EventLocation: &location,
		Status:        "ignored",
	}, "key-1")
	if err != nil {
		t.Fatalf("RequestBooking() error = %v", err)
	}
	if result.Status != "ok" || result.ID != "b1" {
		t.Errorf("unexpected result %+v", result)
	}
	if last.Header.Get("Idempotency-Key") != "key-1" || last.Header.Get("Content-Type") != "application/json" {
		t.Errorf("unexpected headers %v", last.Header)
	}

	_, err = c.RequestBooking(context.Background(), model.BookingRequest{Name: "Ana", Email: "ana@example.com", Message: "short"}, "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity || apiErr.Code != "VALIDATION_ERROR" || apiErr.Details["errors"] == nil {
		t.Errorf("unexpected APIError %+v", apiErr)
	}
}
