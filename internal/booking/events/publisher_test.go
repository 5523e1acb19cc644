package events

import (
	"context"
	"testing"
	"time"

	"bandsite/pkg/kafka"
	"bandsite/pkg/middleware"
	"bandsite/pkg/model"
)

func TestBookingRequestedMessage_RoundTrip(t *testing.T) {
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	event := model.BookingEvent{
		BookingID:     "665f1c2e9b1e8a0012345678",
		Name:          "Ana Lopez",
		Email:         "ana@example.com",
		EventLocation: "Porto",
		CreatedAt:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := NewBookingRequestedMessage(ctx, event)
	if err != nil {
		t.Fatalf("NewBookingRequestedMessage() error = %v", err)
	}
	if msg.Key != event.BookingID {
		t.Errorf("expected key %s, got %s", event.BookingID, msg.Key)
	}
	if msg.GetCorrelationID() != "req-42" {
		t.Errorf("expected correlation id from request, got %q", msg.GetCorrelationID())
	}

	got, err := ParseBookingRequested(msg)
	if err != nil {
		t.Fatalf("ParseBookingRequested() error = %v", err)
	}
	if !got.CreatedAt.Equal(event.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, event.CreatedAt)
	}
	got.CreatedAt = event.CreatedAt
	if got != event {
		t.Errorf("ParseBookingRequested() = %+v, want %+v", got, event)
	}
}

func TestParseBookingRequested_Rejects(t *testing.T) {
	wrongType, _ := kafka.NewMessage().WithKey("k").WithValue(model.BookingEvent{BookingID: "b"}).WithEventType("booking.cancelled").Build()
	noID, _ := kafka.NewMessage().WithKey("k").WithValue(model.BookingEvent{}).WithEventType(EventBookingRequested).Build()
	garbage := kafka.Message{Key: "k", Value: []byte("{"), Headers: map[string]string{kafka.HeaderEventType: EventBookingRequested}}

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{"wrong event type", wrongType},
		{"missing booking id", noID},
		{"malformed value", garbage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBookingRequested(tt.msg)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if kafka.ShouldRetry(err, 0, 3) {
				t.Errorf("bad payloads must not be retried: %v", err)
			}
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	if err := pub.BookingRequested(context.Background(), model.BookingEvent{}); err != nil {
		t.Errorf("noop publish failed: %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("noop close failed: %v", err)
	}
}

func TestBookingRequestedHandler(t *testing.T) {
	var got []model.BookingEvent
	handler := NewBookingRequestedHandler(func(_ context.Context, event model.BookingEvent) error {
		got = append(got, event)
		return nil
	})

	msg, err := NewBookingRequestedMessage(context.Background(), model.BookingEvent{BookingID: "b1", Name: "Ana"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("handler() error = %v", err)
	}
	if len(got) != 1 || got[0].BookingID != "b1" {
		t.Errorf("unexpected notifications %+v", got)
	}

	bad := kafka.Message{Key: "k", Value: []byte("{}"), Headers: map[string]string{}}
	if err := handler(context.Background(), bad); kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent error for a foreign message, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("foreign message must not notify")
	}
}
