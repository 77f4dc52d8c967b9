package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/domain"
	offerDomain "github.com/freightdesk/service-booking/internal/domain/offer"
	"github.com/freightdesk/service-booking/internal/events"
	"github.com/freightdesk/service-booking/internal/kafka"
)

// CreateOfferRequest is the request DTO for publishing a freight-rate offer.
type CreateOfferRequest struct {
	OriginPort      string     `json:"origin_port" binding:"required"`
	DestinationPort string     `json:"destination_port" binding:"required"`
	LoadType        string     `json:"load_type"`
	Quantity        int        `json:"quantity" binding:"required"`
	Commodity       string     `json:"commodity"`
	VesselName      string     `json:"vessel_name"`
	Voyage          string     `json:"voyage"`
	RatePerUnit     int64      `json:"rate_per_unit" binding:"required"`
	Currency        string     `json:"currency"`
	ValidUntil      *time.Time `json:"valid_until"`
}

// OfferDTO is the API response representation of an offer.
type OfferDTO struct {
	ID              uuid.UUID  `json:"id"`
	OfferNumber     string     `json:"offer_number"`
	OriginPort      string     `json:"origin_port"`
	DestinationPort string     `json:"destination_port"`
	LoadType        string     `json:"load_type,omitempty"`
	Quantity        int        `json:"quantity"`
	Commodity       string     `json:"commodity,omitempty"`
	VesselName      string     `json:"vessel_name,omitempty"`
	Voyage          string     `json:"voyage,omitempty"`
	RatePerUnit     int64      `json:"rate_per_unit"`
	Currency        string     `json:"currency,omitempty"`
	ValidUntil      *time.Time `json:"valid_until,omitempty"`
	CreatedBy       string     `json:"created_by"`
	AcceptedBy      string     `json:"accepted_by,omitempty"`
	AcceptedByName  string     `json:"accepted_by_name,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OfferService orchestrates the offer side of the marketplace: providers
// publish offers, clients accept them, acceptance seeds a booking.
type OfferService struct {
	repo     offerDomain.OfferRepository
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewOfferService creates a new OfferService.
func NewOfferService(repo offerDomain.OfferRepository, producer *kafka.Producer, logger *zap.Logger) *OfferService {
	return &OfferService{repo: repo, producer: producer, logger: logger}
}

// CreateOffer publishes a new open offer for the given provider.
func (s *OfferService) CreateOffer(ctx context.Context, createdBy string, req CreateOfferRequest) (*OfferDTO, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	off, err := offerDomain.NewOffer(
		createdBy,
		req.OriginPort,
		req.DestinationPort,
		req.LoadType,
		req.Quantity,
		req.Commodity,
		req.VesselName,
		req.Voyage,
		req.RatePerUnit,
		currency,
		req.ValidUntil,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, off); err != nil {
		return nil, err
	}

	result := toOfferDTO(off)
	return &result, nil
}

// GetOffer retrieves a single offer by ID.
func (s *OfferService) GetOffer(ctx context.Context, offerID uuid.UUID) (*OfferDTO, error) {
	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	result := toOfferDTO(off)
	return &result, nil
}

// ListOpenOffers retrieves paginated open offers for the marketplace view.
func (s *OfferService) ListOpenOffers(ctx context.Context, page, limit int) (*domain.PaginatedResult[OfferDTO], error) {
	offers, total, err := s.repo.ListOpen(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return paginateOffers(offers, total, page, limit), nil
}

// GetProviderOffers retrieves paginated offers created by the given provider.
func (s *OfferService) GetProviderOffers(ctx context.Context, createdBy string, page, limit int) (*domain.PaginatedResult[OfferDTO], error) {
	offers, total, err := s.repo.FindByCreator(ctx, createdBy, page, limit)
	if err != nil {
		return nil, err
	}
	return paginateOffers(offers, total, page, limit), nil
}

// AcceptOffer marks an open offer as accepted by the given client and
// publishes the acceptance event that triggers booking generation.
func (s *OfferService) AcceptOffer(ctx context.Context, offerID uuid.UUID, acceptedBy, acceptedByName string) (*OfferDTO, error) {
	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	if err := off.Accept(acceptedBy, acceptedByName); err != nil {
		return nil, err
	}

	off.IncrementVersion()
	if err := s.repo.Update(ctx, off); err != nil {
		return nil, err
	}

	evt := events.OfferAcceptedEvent{
		OfferID:        off.ID(),
		OfferNumber:    off.OfferNumber(),
		CreatedBy:      off.CreatedBy(),
		AcceptedBy:     acceptedBy,
		AcceptedByName: acceptedByName,
		OccurredAt:     time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicOfferEvents, events.OfferAccepted, off.ID().String(), evt)

	result := toOfferDTO(off)
	return &result, nil
}

// WithdrawOffer closes an open offer. Only its creator may withdraw it.
func (s *OfferService) WithdrawOffer(ctx context.Context, offerID uuid.UUID, identity string) (*OfferDTO, error) {
	off, err := s.repo.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !off.IsCreatedBy(identity) {
		return nil, domain.NewForbiddenError("offer does not belong to this user")
	}

	if err := off.Withdraw(); err != nil {
		return nil, err
	}

	off.IncrementVersion()
	if err := s.repo.Update(ctx, off); err != nil {
		return nil, err
	}

	result := toOfferDTO(off)
	return &result, nil
}

// --- Helpers ---

func toOfferDTO(o *offerDomain.Offer) OfferDTO {
	return OfferDTO{
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
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func paginateOffers(offers []*offerDomain.Offer, total int64, page, limit int) *domain.PaginatedResult[OfferDTO] {
	dtos := make([]OfferDTO, len(offers))
	for i, o := range offers {
		dtos[i] = toOfferDTO(o)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result
}

func (s *OfferService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
