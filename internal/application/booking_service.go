package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freightdesk/service-booking/internal/domain"
	bookingDomain "github.com/freightdesk/service-booking/internal/domain/booking"
	"github.com/freightdesk/service-booking/internal/domain/masters"
	offerDomain "github.com/freightdesk/service-booking/internal/domain/offer"
	"github.com/freightdesk/service-booking/internal/events"
	"github.com/freightdesk/service-booking/internal/kafka"
)

// AssignCarrierInfoRequest carries the data for the PENDING → CREATED step.
// ManualEntry marks a shipping line typed by hand instead of picked from the
// master list.
type AssignCarrierInfoRequest struct {
	BookingRef   string `json:"booking_ref" binding:"required"`
	ShippingLine string `json:"shipping_line" binding:"required"`
	ManualEntry  bool   `json:"manual_entry"`
}

// UpdateBookingRequest is a partial patch against a booking. Only the fields
// present are applied; a status change appends one timeline entry.
type UpdateBookingRequest struct {
	Status       *string `json:"status"`
	BookingRef   *string `json:"booking_ref"`
	ShippingLine *string `json:"shipping_line"`
	Remark       string  `json:"remark"`
}

// AdvanceBookingRequest optionally annotates a milestone advance.
type AdvanceBookingRequest struct {
	Remark string `json:"remark"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID           uuid.UUID                `json:"id"`
	OfferID      uuid.UUID                `json:"offer_id"`
	OfferNumber  string                   `json:"offer_number"`
	Route        bookingDomain.RouteSpec  `json:"route"`
	Cargo        bookingDomain.CargoSpec  `json:"cargo"`
	Vessel       bookingDomain.VesselSpec `json:"vessel"`
	BookingRef   string                   `json:"booking_ref"`
	ShippingLine string                   `json:"shipping_line,omitempty"`
	Status       string                   `json:"status"`
	Provider     string                   `json:"provider"`
	Client       string                   `json:"client"`
	ClientName   string                   `json:"client_name,omitempty"`
	Timeline     bookingDomain.Timeline   `json:"timeline"`
	Version      int64                    `json:"version"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

// BookingService is the application service orchestrating the booking
// lifecycle: creation from accepted offers, the carrier-info transition, and
// milestone advancement.
type BookingService struct {
	repo        bookingDomain.BookingRepository
	offers      offerDomain.OfferRepository
	lines       masters.ShippingLineRepository
	producer    *kafka.Producer
	mainAccount string
	logger      *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	offers offerDomain.OfferRepository,
	lines masters.ShippingLineRepository,
	producer *kafka.Producer,
	mainAccount string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:        repo,
		offers:      offers,
		lines:       lines,
		producer:    producer,
		mainAccount: mainAccount,
		logger:      logger,
	}
}

// CreateBookingFromOffer generates the booking for an accepted offer,
// snapshotting its route, cargo and vessel fields. The call is idempotent per
// offer: if the booking already exists it is returned unchanged.
func (s *BookingService) CreateBookingFromOffer(ctx context.Context, offerID uuid.UUID) (*BookingDTO, error) {
	off, err := s.offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if off.Status() != offerDomain.OfferStatusAccepted {
		return nil, domain.NewInvalidStateError(string(off.Status()), "booking creation")
	}

	if existing, err := s.repo.FindByOfferID(ctx, offerID); err == nil {
		result := toBookingDTO(existing)
		return &result, nil
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	bk, err := bookingDomain.NewBookingFromOffer(
		off.ID(),
		off.OfferNumber(),
		bookingDomain.RouteSpec{
			OriginPort:      off.OriginPort(),
			DestinationPort: off.DestinationPort(),
		},
		bookingDomain.CargoSpec{
			LoadType:  off.LoadType(),
			Quantity:  off.Quantity(),
			Commodity: off.Commodity(),
		},
		bookingDomain.VesselSpec{
			VesselName: off.VesselName(),
			Voyage:     off.Voyage(),
		},
		off.CreatedBy(),
		off.AcceptedBy(),
		off.AcceptedByName(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	evt := events.BookingCreatedEvent{
		BookingID:   bk.ID(),
		OfferID:     bk.OfferID(),
		OfferNumber: bk.OfferNumber(),
		Provider:    bk.Provider(),
		Client:      bk.Client(),
		OccurredAt:  time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCreated, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CreateBookingFromOfferID is the error-only variant used by the offer event
// consumer.
func (s *BookingService) CreateBookingFromOfferID(ctx context.Context, offerID uuid.UUID) error {
	_, err := s.CreateBookingFromOffer(ctx, offerID)
	return err
}

// AssignCarrierInfo performs the carrier-info transition: the provider
// supplies the carrier booking reference and shipping line, moving the
// booking from PENDING to CREATED.
func (s *BookingService) AssignCarrierInfo(ctx context.Context, bookingID uuid.UUID, req AssignCarrierInfoRequest, actor string) (*BookingDTO, error) {
	line := strings.TrimSpace(req.ShippingLine)
	if line == "" {
		return nil, domain.NewValidationError("shipping line is required")
	}
	if !req.ManualEntry {
		if _, err := s.lines.FindByName(ctx, line); err != nil {
			if domain.IsNotFound(err) {
				return nil, domain.NewValidationError(fmt.Sprintf("unknown shipping line %q; use manual entry for lines outside the master list", line))
			}
			return nil, err
		}
	}

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Provider() != actor {
		return nil, domain.NewForbiddenError("only the booking provider can assign carrier information")
	}

	if err := bk.AssignCarrierInfo(req.BookingRef, line, actor); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.CarrierAssignedEvent{
		BookingID:    bk.ID(),
		BookingRef:   bk.BookingRef(),
		ShippingLine: bk.ShippingLine(),
		AssignedBy:   actor,
		OccurredAt:   time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCarrierAssigned, bk.ID().String(), evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// AdvanceBooking moves a booking to the next milestone in the canonical
// order. Advancing a terminal booking is rejected.
func (s *BookingService) AdvanceBooking(ctx context.Context, bookingID uuid.UUID, req AdvanceBookingRequest, actor string) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Provider() != actor {
		return nil, domain.NewForbiddenError("only the booking provider can advance the booking")
	}

	reached, err := bk.Advance(actor, req.Remark)
	if err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishMilestone(ctx, bk, reached, actor)

	result := toBookingDTO(bk)
	return &result, nil
}

// UpdateBooking applies a partial patch to a booking. A status present in the
// patch must be the next canonical milestone; carrier fields are accepted
// only alongside the CREATED transition. A patch with an unchanged status
// appends nothing to the timeline.
func (s *BookingService) UpdateBooking(ctx context.Context, bookingID uuid.UUID, req UpdateBookingRequest, actor string) (*BookingDTO, error) {
	var patch bookingDomain.Patch
	if req.Status != nil {
		status, err := bookingDomain.ParseStatus(*req.Status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		patch.Status = &status
	}
	patch.BookingRef = req.BookingRef
	patch.ShippingLine = req.ShippingLine
	patch.Remark = req.Remark

	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.Provider() != actor {
		return nil, domain.NewForbiddenError("only the booking provider can update the booking")
	}

	previous := bk.Status()
	if err := bk.ApplyPatch(patch, actor); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		return nil, err
	}

	if bk.Status() != previous {
		if bk.Status() == bookingDomain.StatusCreated {
			evt := events.CarrierAssignedEvent{
				BookingID:    bk.ID(),
				BookingRef:   bk.BookingRef(),
				ShippingLine: bk.ShippingLine(),
				AssignedBy:   actor,
				OccurredAt:   time.Now().UTC(),
			}
			s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCarrierAssigned, bk.ID().String(), evt)
		} else {
			s.publishMilestone(ctx, bk, bk.Status(), actor)
		}
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingTimeline returns the booking's audit trail newest-first, the
// order report views render.
func (s *BookingService) GetBookingTimeline(ctx context.Context, bookingID uuid.UUID) (bookingDomain.Timeline, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return bk.Timeline().Reversed(), nil
}

// GetParticipantBookings retrieves paginated bookings where the identity is
// provider or client. The designated main account additionally sees bookings
// attributed to the literal "main" placeholder identity.
func (s *BookingService) GetParticipantBookings(ctx context.Context, identity string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	identities := []string{identity}
	if identity == s.mainAccount && identity != "main" {
		identities = append(identities, "main")
	}

	bookings, total, err := s.repo.FindByParticipant(ctx, identities, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:           bk.ID(),
		OfferID:      bk.OfferID(),
		OfferNumber:  bk.OfferNumber(),
		Route:        bk.Route(),
		Cargo:        bk.Cargo(),
		Vessel:       bk.Vessel(),
		BookingRef:   bk.BookingRef(),
		ShippingLine: bk.ShippingLine(),
		Status:       string(bk.Status()),
		Provider:     bk.Provider(),
		Client:       bk.Client(),
		ClientName:   bk.ClientName(),
		Timeline:     bk.Timeline(),
		Version:      bk.Version(),
		CreatedAt:    bk.CreatedAt(),
		UpdatedAt:    bk.UpdatedAt(),
	}
}

func (s *BookingService) publishMilestone(ctx context.Context, bk *bookingDomain.Booking, reached bookingDomain.Status, actor string) {
	evt := events.MilestoneReachedEvent{
		BookingID:  bk.ID(),
		Status:     reached.String(),
		ReachedBy:  actor,
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingMilestoneReached, bk.ID().String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType, key string, data interface{}) {
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
