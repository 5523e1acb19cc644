package model

import "time"

const BookingStatusNew = "new"

type BookingRequest struct {
	Name          string  `json:"name" bson:"name"`
	Email         string  `json:"email" bson:"email"`
	Message       string  `json:"message" bson:"message"`
	EventDate     *string `json:"event_date,omitempty" bson:"event_date,omitempty"`
	EventLocation *string `json:"event_location,omitempty" bson:"event_location,omitempty"`

	Status    string    `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// BookingEvent is published once a booking request has been stored.
type BookingEvent struct {
	BookingID     string    `json:"booking_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EventDate     string    `json:"event_date,omitempty"`
	EventLocation string    `json:"event_location,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
