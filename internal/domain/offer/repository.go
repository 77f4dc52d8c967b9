package offer

import (
	"context"

	"github.com/google/uuid"
)

// OfferRepository defines persistence operations for offers.
type OfferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Offer, error)
	FindByNumber(ctx context.Context, number string) (*Offer, error)
	ListOpen(ctx context.Context, page, limit int) ([]*Offer, int64, error)
	FindByCreator(ctx context.Context, createdBy string, page, limit int) ([]*Offer, int64, error)
	Save(ctx context.Context, offer *Offer) error
	Update(ctx context.Context, offer *Offer) error
}
