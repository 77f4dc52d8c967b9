package masters

import "context"

// ShippingLineRepository defines persistence operations for the shipping-line
// master list.
type ShippingLineRepository interface {
	List(ctx context.Context) ([]*ShippingLine, error)
	FindByName(ctx context.Context, name string) (*ShippingLine, error)
	Save(ctx context.Context, line *ShippingLine) error
	Count(ctx context.Context) (int64, error)
}
