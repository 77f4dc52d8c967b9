package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics used by the service.
const (
	TopicOfferEvents   = "offer.events"
	TopicBookingEvents = "booking.events"
)

// Event types carried in CloudEvent envelopes.
const (
	OfferAccepted           = "offer.accepted"
	OfferWithdrawn          = "offer.withdrawn"
	BookingCreated          = "booking.created"
	BookingCarrierAssigned  = "booking.carrier_assigned"
	BookingMilestoneReached = "booking.milestone_reached"
)

// OfferAcceptedEvent announces that a client accepted an open offer. The
// booking service itself consumes this to generate the booking.
type OfferAcceptedEvent struct {
	OfferID        uuid.UUID `json:"offer_id"`
	OfferNumber    string    `json:"offer_number"`
	CreatedBy      string    `json:"created_by"`
	AcceptedBy     string    `json:"accepted_by"`
	AcceptedByName string    `json:"accepted_by_name"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// BookingCreatedEvent announces that a booking was generated from an offer.
type BookingCreatedEvent struct {
	BookingID   uuid.UUID `json:"booking_id"`
	OfferID     uuid.UUID `json:"offer_id"`
	OfferNumber string    `json:"offer_number"`
	Provider    string    `json:"provider"`
	Client      string    `json:"client"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// CarrierAssignedEvent announces the PENDING → CREATED transition.
type CarrierAssignedEvent struct {
	BookingID    uuid.UUID `json:"booking_id"`
	BookingRef   string    `json:"booking_ref"`
	ShippingLine string    `json:"shipping_line"`
	AssignedBy   string    `json:"assigned_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// MilestoneReachedEvent announces any forward status transition.
type MilestoneReachedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Status     string    `json:"status"`
	ReachedBy  string    `json:"reached_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
