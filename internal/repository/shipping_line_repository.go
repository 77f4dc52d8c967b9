package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freightdesk/service-booking/internal/domain"
	"github.com/freightdesk/service-booking/internal/domain/masters"
)

// ShippingLineModel is the GORM model for the shipping_lines master table.
type ShippingLineModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"uniqueIndex;not null;size:100"`
	SCAC      string    `gorm:"size:10"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ShippingLineModel) TableName() string {
	return "shipping_lines"
}

// GormShippingLineRepository is the GORM-based master-list repository.
type GormShippingLineRepository struct {
	db *gorm.DB
}

// NewGormShippingLineRepository creates a new GormShippingLineRepository.
func NewGormShippingLineRepository(db *gorm.DB) *GormShippingLineRepository {
	return &GormShippingLineRepository{db: db}
}

// List returns all master shipping lines in name order.
func (r *GormShippingLineRepository) List(ctx context.Context) ([]*masters.ShippingLine, error) {
	var models []ShippingLineModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list shipping lines: %w", err)
	}

	lines := make([]*masters.ShippingLine, len(models))
	for i, m := range models {
		lines[i] = masters.Reconstruct(m.ID, m.Name, m.SCAC, m.CreatedAt)
	}
	return lines, nil
}

// FindByName retrieves a master shipping line by exact name.
func (r *GormShippingLineRepository) FindByName(ctx context.Context, name string) (*masters.ShippingLine, error) {
	var model ShippingLineModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("ShippingLine", name)
		}
		return nil, fmt.Errorf("failed to find shipping line: %w", err)
	}
	return masters.Reconstruct(model.ID, model.Name, model.SCAC, model.CreatedAt), nil
}

// Save persists a new master shipping line.
func (r *GormShippingLineRepository) Save(ctx context.Context, line *masters.ShippingLine) error {
	model := ShippingLineModel{
		ID:        line.ID(),
		Name:      line.Name(),
		SCAC:      line.SCAC(),
		CreatedAt: line.CreatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save shipping line: %w", err)
	}
	return nil
}

// Count returns the number of master shipping lines.
func (r *GormShippingLineRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ShippingLineModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count shipping lines: %w", err)
	}
	return count, nil
}
