package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/domain/masters"
)

// ShippingLineDTO is the API representation of a master shipping line.
type ShippingLineDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SCAC      string    `json:"scac,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MasterService serves the master-data lists backing form dropdowns.
type MasterService struct {
	lines  masters.ShippingLineRepository
	logger *zap.Logger
}

// NewMasterService creates a new MasterService.
func NewMasterService(lines masters.ShippingLineRepository, logger *zap.Logger) *MasterService {
	return &MasterService{lines: lines, logger: logger}
}

// ListShippingLines returns the shipping-line master list.
func (s *MasterService) ListShippingLines(ctx context.Context) ([]ShippingLineDTO, error) {
	lines, err := s.lines.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping lines: %w", err)
	}

	dtos := make([]ShippingLineDTO, len(lines))
	for i, l := range lines {
		dtos[i] = ShippingLineDTO{
			ID:        l.ID(),
			Name:      l.Name(),
			SCAC:      l.SCAC(),
			CreatedAt: l.CreatedAt(),
		}
	}
	return dtos, nil
}

// SeedShippingLines loads the default carrier set into an empty master list.
// A populated list is left untouched.
func (s *MasterService) SeedShippingLines(ctx context.Context) error {
	count, err := s.lines.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count shipping lines: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, seed := range masters.DefaultShippingLines {
		line, err := masters.NewShippingLine(seed.Name, seed.SCAC)
		if err != nil {
			return err
		}
		if err := s.lines.Save(ctx, line); err != nil {
			return fmt.Errorf("failed to seed shipping line %s: %w", seed.Name, err)
		}
	}

	s.logger.Info("seeded shipping-line master list",
		zap.Int("count", len(masters.DefaultShippingLines)),
	)
	return nil
}
