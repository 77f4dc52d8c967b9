package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its internal identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByOfferID retrieves the booking created from a given offer, if any.
	FindByOfferID(ctx context.Context, offerID uuid.UUID) (*Booking, error)

	// FindByParticipant retrieves bookings where any of the given identities
	// is the provider or the client, newest first, with pagination.
	FindByParticipant(ctx context.Context, identities []string, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
