package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freightdesk/service-booking/internal/domain"
	bookingDomain "github.com/freightdesk/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table. The timeline and the
// offer snapshot specs are stored as jsonb sub-documents; provider, client
// and status carry indexes because the list views filter on them.
type BookingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OfferID      uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	OfferNumber  string          `gorm:"not null;size:20"`
	Route        json.RawMessage `gorm:"type:jsonb;not null"`
	Cargo        json.RawMessage `gorm:"type:jsonb;not null"`
	Vessel       json.RawMessage `gorm:"type:jsonb;not null"`
	BookingRef   string          `gorm:"not null;size:50;index"`
	ShippingLine string          `gorm:"size:100"`
	Status       string          `gorm:"not null;size:30;index"`
	Provider     string          `gorm:"not null;size:100;index"`
	Client       string          `gorm:"not null;size:100;index"`
	ClientName   string          `gorm:"size:200"`
	Timeline     json.RawMessage `gorm:"type:jsonb;not null"`
	Version      int64           `gorm:"not null;default:1"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its internal identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByOfferID retrieves the booking generated from the given offer.
func (r *GormBookingRepository) FindByOfferID(ctx context.Context, offerID uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("offer_id = ?", offerID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking for offer", offerID.String())
		}
		return nil, fmt.Errorf("failed to find booking by offer ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByParticipant retrieves bookings where any of the identities is the
// provider or the client, newest first.
func (r *GormBookingRepository) FindByParticipant(ctx context.Context, identities []string, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("provider IN ? OR client IN ?", identities, identities)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count participant bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find participant bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking. A
// version mismatch means a concurrent writer won the race; the caller gets a
// conflict error and must re-read before retrying, which keeps the
// append-only timeline intact under concurrency.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// IncrementVersion was called before Update, so the row must still hold
	// version-1 for this write to win.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"booking_ref":   model.BookingRef,
			"shipping_line": model.ShippingLine,
			"status":        model.Status,
			"timeline":      model.Timeline,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	routeJSON, err := json.Marshal(bk.Route())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal route: %w", err)
	}

	cargoJSON, err := json.Marshal(bk.Cargo())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cargo: %w", err)
	}

	vesselJSON, err := json.Marshal(bk.Vessel())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vessel: %w", err)
	}

	timelineJSON, err := json.Marshal(bk.Timeline())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timeline: %w", err)
	}

	return &BookingModel{
		ID:           bk.ID(),
		OfferID:      bk.OfferID(),
		OfferNumber:  bk.OfferNumber(),
		Route:        routeJSON,
		Cargo:        cargoJSON,
		Vessel:       vesselJSON,
		BookingRef:   bk.BookingRef(),
		ShippingLine: bk.ShippingLine(),
		Status:       string(bk.Status()),
		Provider:     bk.Provider(),
		Client:       bk.Client(),
		ClientName:   bk.ClientName(),
		Timeline:     timelineJSON,
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var route bookingDomain.RouteSpec
	if err := json.Unmarshal(m.Route, &route); err != nil {
		return nil, fmt.Errorf("failed to unmarshal route: %w", err)
	}

	var cargo bookingDomain.CargoSpec
	if err := json.Unmarshal(m.Cargo, &cargo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cargo: %w", err)
	}

	var vessel bookingDomain.VesselSpec
	if err := json.Unmarshal(m.Vessel, &vessel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vessel: %w", err)
	}

	var timeline bookingDomain.Timeline
	if err := json.Unmarshal(m.Timeline, &timeline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timeline: %w", err)
	}

	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.OfferID,
		m.OfferNumber,
		route,
		cargo,
		vessel,
		m.BookingRef,
		m.ShippingLine,
		status,
		m.Provider,
		m.Client,
		m.ClientName,
		timeline,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}
