package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freightdesk/service-booking/internal/domain"
	offerDomain "github.com/freightdesk/service-booking/internal/domain/offer"
)

// OfferModel is the GORM model for the offers table.
type OfferModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OfferNumber     string     `gorm:"uniqueIndex;not null;size:20"`
	OriginPort      string     `gorm:"not null;size:100"`
	DestinationPort string     `gorm:"not null;size:100"`
	LoadType        string     `gorm:"size:50"`
	Quantity        int        `gorm:"not null"`
	Commodity       string     `gorm:"size:200"`
	VesselName      string     `gorm:"size:100"`
	Voyage          string     `gorm:"size:50"`
	RatePerUnit     int64      `gorm:"not null"`
	Currency        string     `gorm:"not null;size:3;default:'USD'"`
	ValidUntil      *time.Time `gorm:""`
	CreatedBy       string     `gorm:"not null;size:100;index"`
	AcceptedBy      string     `gorm:"size:100;index"`
	AcceptedByName  string     `gorm:"size:200"`
	Status          string     `gorm:"not null;size:20;index"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (OfferModel) TableName() string {
	return "offers"
}

// GormOfferRepository is the GORM-based implementation of OfferRepository.
type GormOfferRepository struct {
	db *gorm.DB
}

// NewGormOfferRepository creates a new GormOfferRepository.
func NewGormOfferRepository(db *gorm.DB) *GormOfferRepository {
	return &GormOfferRepository{db: db}
}

// FindByID retrieves an offer by its unique identifier.
func (r *GormOfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	var model OfferModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", id.String())
		}
		return nil, fmt.Errorf("failed to find offer by ID: %w", err)
	}
	return toDomainOffer(&model), nil
}

// FindByNumber retrieves an offer by its offer number.
func (r *GormOfferRepository) FindByNumber(ctx context.Context, number string) (*offerDomain.Offer, error) {
	var model OfferModel
	if err := r.db.WithContext(ctx).Where("offer_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Offer", number)
		}
		return nil, fmt.Errorf("failed to find offer by number: %w", err)
	}
	return toDomainOffer(&model), nil
}

// ListOpen retrieves open offers, newest first, with pagination.
func (r *GormOfferRepository) ListOpen(ctx context.Context, page, limit int) ([]*offerDomain.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&OfferModel{}).
		Where("status = ?", string(offerDomain.OfferStatusOpen))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count open offers: %w", err)
	}

	var models []OfferModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list open offers: %w", err)
	}

	return toDomainOffers(models, total)
}

// FindByCreator retrieves offers created by the given identity with
// pagination.
func (r *GormOfferRepository) FindByCreator(ctx context.Context, createdBy string, page, limit int) ([]*offerDomain.Offer, int64, error) {
	query := r.db.WithContext(ctx).Model(&OfferModel{}).
		Where("created_by = ?", createdBy)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count creator offers: %w", err)
	}

	var models []OfferModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find creator offers: %w", err)
	}

	return toDomainOffers(models, total)
}

// Save persists a new offer.
func (r *GormOfferRepository) Save(ctx context.Context, off *offerDomain.Offer) error {
	model := toOfferModel(off)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

// Update persists changes to an existing offer with optimistic locking.
func (r *GormOfferRepository) Update(ctx context.Context, off *offerDomain.Offer) error {
	model := toOfferModel(off)

	expectedVersion := off.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&OfferModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"accepted_by":      model.AcceptedBy,
			"accepted_by_name": model.AcceptedByName,
			"status":           model.Status,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update offer: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("offer was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toOfferModel(o *offerDomain.Offer) *OfferModel {
	return &OfferModel{
		ID:              o.ID(),
		OfferNumber:     o.OfferNumber(),
		OriginPort:      o.OriginPort(),
		DestinationPort: o.DestinationPort(),
		LoadType:        o.LoadType(),
		Quantity:        o.Quantity(),
		Commodity:       o.Commodity(),
		VesselName:      o.VesselName(),
		Voyage:          o.Voyage(),
		RatePerUnit:     o.RatePerUnit(),
		Currency:        o.Currency(),
		ValidUntil:      o.ValidUntil(),
		CreatedBy:       o.CreatedBy(),
		AcceptedBy:      o.AcceptedBy(),
		AcceptedByName:  o.AcceptedByName(),
		Status:          string(o.Status()),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func toDomainOffer(m *OfferModel) *offerDomain.Offer {
	return offerDomain.Reconstruct(
		m.ID,
		m.OfferNumber,
		m.OriginPort,
		m.DestinationPort,
		m.LoadType,
		m.Quantity,
		m.Commodity,
		m.VesselName,
		m.Voyage,
		m.RatePerUnit,
		m.Currency,
		m.ValidUntil,
		m.CreatedBy,
		m.AcceptedBy,
		m.AcceptedByName,
		offerDomain.OfferStatus(m.Status),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

func toDomainOffers(models []OfferModel, total int64) ([]*offerDomain.Offer, int64, error) {
	offers := make([]*offerDomain.Offer, len(models))
	for i, m := range models {
		offers[i] = toDomainOffer(&m)
	}
	return offers, total, nil
}
