package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"bandsite/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

// fakeReader serves queued messages, then blocks until ctx is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
	drained   chan struct{}
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	close(r.drained)
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"name": "Ana"}).
		WithEventType("booking.requested").
		WithSource("bandsite").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if msg.GetEventID() == "" || msg.Headers[HeaderTimestamp] == "" {
		t.Errorf("expected generated event id and timestamp, got %v", msg.Headers)
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["name"] != "Ana" {
		t.Errorf("DecodeValue() = %v, %v", decoded, err)
	}

	if _, err := NewMessage().WithValue(func() {}).Build(); err == nil {
		t.Errorf("expected encoding error for unencodable value")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{Headers: map[string]string{}}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("GetRetryCount() = %d, want 12", got)
	}
}

func TestProducer_Publish(t *testing.T) {
	writer := &fakeWriter{}
	producer := newProducer(writer, "booking.requests")

	var seen []string
	producer.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
		seen = append(seen, msg.Topic)
		return next(ctx, msg)
	})
	producer.Use(LoggingProducerMiddleware(logger.Discard()))

	msg, _ := NewMessage().WithKey("b1").WithValue("hello").Build()
	if err := producer.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if len(writer.messages) != 1 || string(writer.messages[0].Key) != "b1" {
		t.Errorf("unexpected written messages %v", writer.messages)
	}
	if len(seen) != 1 || seen[0] != "booking.requests" {
		t.Errorf("middleware did not observe topic, saw %v", seen)
	}

	if err := producer.Publish(context.Background(), Message{Value: []byte("x")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}

	_ = producer.Close()
	if err := producer.Publish(context.Background(), msg); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
	if !writer.closed {
		t.Errorf("Close should close the writer")
	}
}

func TestProducer_PublishFailureIsTransient(t *testing.T) {
	producer := newProducer(&fakeWriter{err: io.ErrUnexpectedEOF}, "t")
	msg, _ := NewMessage().WithKey("k").WithValue(1).Build()

	err := producer.Publish(context.Background(), msg)
	if ClassifyError(err) != ErrorTypeTransient {
		t.Errorf("expected transient error, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"connection refused", errors.New("dial tcp: Connection refused"), ErrorTypeTransient},
		{"kafka temporary", kafka.LeaderNotAvailable, ErrorTypeTransient},
		{"decode", NewPermanentError("deserialization failed", io.EOF), ErrorTypePermanent},
		{"unknown", errors.New("something odd"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{
		queue: []kafka.Message{
			{Topic: "booking.requests", Offset: 1, Key: []byte("ok"), Value: []byte(`{}`)},
			{Topic: "booking.requests", Offset: 2, Key: []byte("flaky"), Value: []byte(`{}`)},
			{Topic: "booking.requests", Offset: 3, Key: []byte("bad"), Value: []byte(`{}`)},
		},
		drained: make(chan struct{}),
	}
	dlq := &fakeWriter{}

	var mu sync.Mutex
	attempts := map[string]int{}
	handler := func(_ context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		attempts[msg.Key]++
		switch msg.Key {
		case "flaky":
			if attempts[msg.Key] < 2 {
				return NewTransientError("flaky", io.ErrUnexpectedEOF)
			}
		case "bad":
			return NewPermanentError("bad payload", nil)
		}
		return nil
	}

	consumer := newConsumer(reader, dlq, "booking.requests", "notifier", handler, logger.Discard())
	consumer.retryDelay = 0
	consumer.Use(LoggingConsumerMiddleware(logger.Discard()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Start(ctx) }()

	<-reader.drained
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Start() = %v, want context.Canceled", err)
	}
	_ = consumer.Close()

	if attempts["ok"] != 1 || attempts["flaky"] != 2 || attempts["bad"] != 1 {
		t.Errorf("unexpected attempts %v", attempts)
	}
	if len(reader.committed) != 3 {
		t.Errorf("expected every offset committed, got %v", reader.committed)
	}
	if len(dlq.messages) != 1 || string(dlq.messages[0].Key) != "bad" {
		t.Errorf("expected only the bad message in the DLQ, got %v", dlq.messages)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig([]string{" localhost:9092 ", ""})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "localhost:9092" {
		t.Errorf("brokers not cleaned: %v", cfg.Brokers)
	}

	if err := NewConfig(nil).Validate(); err == nil {
		t.Errorf("expected error without brokers")
	}

	cfg.ProducerCompression = "brotli"
	if err := cfg.Validate(); err == nil {
		t.Errorf("expected error for unknown compression")
	}
}
