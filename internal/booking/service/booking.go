package service

import (
	"context"
	"errors"
	"time"

	"bandsite/internal/booking/events"
	"bandsite/pkg/config"
	apperrors "bandsite/pkg/errors"
	"bandsite/pkg/model"
	"bandsite/pkg/sanitizer"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
)

const publishTimeout = 5 * time.Second

type BookingService interface {
	// Create validates raw, stores it and returns the new booking id.
	Create(ctx context.Context, raw map[string]any) (string, error)
}

type bookingService struct {
	store     store.DocumentStore
	registry  *schema.Registry
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	docs store.DocumentStore,
	registry *schema.Registry,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{
		store:     docs,
		registry:  registry,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, raw map[string]any) (string, error) {
	clean := sanitizer.BookingFields.Apply(raw)

	booking, err := schema.Decode[model.BookingRequest](s.registry, schema.EntityBookingRequest, clean)
	if err != nil {
		var violations schema.ValidationErrors
		if errors.As(err, &violations) {
			s.cfg.Log.Warn("Booking request validation failed",
				"fields", violations.Fields(),
				"error", err,
			)
			return "", apperrors.Validation("Booking request validation failed", violations.Details())
		}
		return "", apperrors.Internal("Failed to decode booking request", err)
	}

	booking.Status = model.BookingStatusNew
	booking.CreatedAt = s.now().UTC()

	collection, err := s.registry.Collection(schema.EntityBookingRequest)
	if err != nil {
		return "", apperrors.Internal("Booking collection is not registered", err)
	}

	id, err := s.store.CreateDocument(ctx, collection, booking)
	if err != nil {
		s.cfg.Log.Error("Failed to store booking request",
			"email", booking.Email,
			"error", err,
		)
		if store.IsUnavailable(err) {
			return "", apperrors.Unavailable("Storage")
		}
		return "", apperrors.Storage("Insert", err)
	}

	s.cfg.Log.Info("Booking request stored",
		"id", id,
		"email", booking.Email,
		"event_date", deref(booking.EventDate),
	)

	s.publish(ctx, id, booking)
	return id, nil
}

// publish never fails the request: the booking is already stored.
func (s *bookingService) publish(ctx context.Context, id string, booking *model.BookingRequest) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := model.BookingEvent{
		BookingID:     id,
		Name:          booking.Name,
		Email:         booking.Email,
		EventDate:     deref(booking.EventDate),
		EventLocation: deref(booking.EventLocation),
		CreatedAt:     booking.CreatedAt,
	}
	if err := s.publisher.BookingRequested(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "id", id, "error", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
