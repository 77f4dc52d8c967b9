package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/freightdesk/service-booking/internal/domain"
	"github.com/google/uuid"
)

// PendingCarrierRef is the sentinel held by bookingRef until the provider
// supplies the real carrier reference. It is not a carrier reference itself:
// the carrier reference does not exist before the CREATED transition.
const PendingCarrierRef = "PENDING"

// SystemActor is the acting identity recorded for engine-generated entries.
const SystemActor = "System"

const creationRemark = "Booking generated automatically from Accepted Offer"

// RouteSpec is the port pair snapshotted from the originating offer.
type RouteSpec struct {
	OriginPort      string `json:"origin_port"`
	DestinationPort string `json:"destination_port"`
}

// CargoSpec describes the shipment contents snapshotted from the offer.
type CargoSpec struct {
	LoadType  string `json:"load_type"`
	Quantity  int    `json:"quantity"`
	Commodity string `json:"commodity"`
}

// VesselSpec is the proposed vessel/voyage snapshotted from the offer.
type VesselSpec struct {
	VesselName string `json:"vessel_name"`
	Voyage     string `json:"voyage"`
}

// Booking is the aggregate root tracking one shipment from offer acceptance
// through discharge. Offer-derived fields are copied once at creation and
// never re-derived; provider and client identities never change.
type Booking struct {
	id          uuid.UUID
	offerID     uuid.UUID
	offerNumber string

	route  RouteSpec
	cargo  CargoSpec
	vessel VesselSpec

	bookingRef   string
	shippingLine string
	status       Status

	provider   string
	client     string
	clientName string

	timeline Timeline

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// Patch is a partial update applied through ApplyPatch. Nil fields are left
// untouched. Remark is carried onto the timeline entry when Status changes.
type Patch struct {
	Status       *Status
	BookingRef   *string
	ShippingLine *string
	Remark       string
}

// NewBookingFromOffer constructs a Booking from an accepted offer's snapshot
// data. Status starts at PENDING with the sentinel carrier reference and a
// single system-authored timeline entry.
func NewBookingFromOffer(
	offerID uuid.UUID,
	offerNumber string,
	route RouteSpec,
	cargo CargoSpec,
	vessel VesselSpec,
	provider string,
	client string,
	clientName string,
) (*Booking, error) {
	if offerID == uuid.Nil {
		return nil, domain.NewValidationError("offer ID is required")
	}
	if provider == "" {
		return nil, domain.NewValidationError("provider identity is required")
	}
	if client == "" {
		return nil, domain.NewValidationError("client identity is required")
	}
	if route.OriginPort == "" || route.DestinationPort == "" {
		return nil, domain.NewValidationError("origin and destination ports are required")
	}
	if cargo.Quantity <= 0 {
		return nil, domain.NewValidationError("cargo quantity must be positive")
	}

	now := time.Now().UTC()
	return &Booking{
		id:          uuid.New(),
		offerID:     offerID,
		offerNumber: offerNumber,
		route:       route,
		cargo:       cargo,
		vessel:      vessel,
		bookingRef:  PendingCarrierRef,
		status:      StatusPending,
		provider:    provider,
		client:      client,
		clientName:  clientName,
		timeline: Timeline{{
			Status: StatusPending,
			At:     now,
			By:     SystemActor,
			Remark: creationRemark,
		}},
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	offerID uuid.UUID,
	offerNumber string,
	route RouteSpec,
	cargo CargoSpec,
	vessel VesselSpec,
	bookingRef string,
	shippingLine string,
	status Status,
	provider string,
	client string,
	clientName string,
	timeline Timeline,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:           id,
		offerID:      offerID,
		offerNumber:  offerNumber,
		route:        route,
		cargo:        cargo,
		vessel:       vessel,
		bookingRef:   bookingRef,
		shippingLine: shippingLine,
		status:       status,
		provider:     provider,
		client:       client,
		clientName:   clientName,
		timeline:     timeline,
		version:      version,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's internal identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// OfferID returns the identifier of the offer this booking was created from.
func (b *Booking) OfferID() uuid.UUID { return b.offerID }

// OfferNumber returns the human-readable number of the originating offer.
func (b *Booking) OfferNumber() string { return b.offerNumber }

// Route returns the snapshotted port pair.
func (b *Booking) Route() RouteSpec { return b.route }

// Cargo returns the snapshotted cargo details.
func (b *Booking) Cargo() CargoSpec { return b.cargo }

// Vessel returns the snapshotted vessel/voyage proposal.
func (b *Booking) Vessel() VesselSpec { return b.vessel }

// BookingRef returns the carrier booking reference, or the PENDING sentinel
// if carrier data has not been assigned yet.
func (b *Booking) BookingRef() string { return b.bookingRef }

// ShippingLine returns the assigned shipping line, empty until CREATED.
func (b *Booking) ShippingLine() string { return b.shippingLine }

// Status returns the current lifecycle milestone.
func (b *Booking) Status() Status { return b.status }

// Provider returns the identity of the offer's creator (the service seller).
func (b *Booking) Provider() string { return b.provider }

// Client returns the identity of the accepting party (the service buyer).
func (b *Booking) Client() string { return b.client }

// ClientName returns the accepting party's display name.
func (b *Booking) ClientName() string { return b.clientName }

// Timeline returns the append-only status history.
func (b *Booking) Timeline() Timeline { return b.timeline }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// ApplyPatch merges a partial update onto the booking. If the patch carries a
// status different from the current one, exactly one timeline entry is
// appended; an unchanged status appends nothing. Carrier fields ride along
// only on the PENDING → CREATED transition. The whole patch is validated
// before anything mutates, so a rejected patch leaves the booking unchanged.
func (b *Booking) ApplyPatch(p Patch, actor string) error {
	if actor == "" {
		return domain.NewValidationError("acting identity is required")
	}

	ref := b.bookingRef
	if p.BookingRef != nil {
		ref = strings.TrimSpace(*p.BookingRef)
	}
	line := b.shippingLine
	if p.ShippingLine != nil {
		line = strings.TrimSpace(*p.ShippingLine)
	}

	statusChanging := p.Status != nil && *p.Status != b.status

	// Carrier data is written exactly once, as part of the CREATED
	// transition. Any other write would leave the sentinel reference out of
	// sync with a PENDING status, or silently rewrite carrier data the
	// shipping line already holds.
	carrierTouched := (p.BookingRef != nil && ref != b.bookingRef) ||
		(p.ShippingLine != nil && line != b.shippingLine)
	if carrierTouched && !(statusChanging && *p.Status == StatusCreated) {
		return domain.NewValidationError("carrier reference and shipping line may only be set on the CREATED transition")
	}

	remark := p.Remark

	if statusChanging {
		target := *p.Status
		if !target.IsValid() {
			return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", target))
		}
		if b.status.IsTerminal() {
			return domain.NewInvalidStateError(b.status.String(), target.String())
		}
		if !b.status.CanTransitionTo(target) {
			return domain.NewInvalidStateError(b.status.String(), target.String())
		}
		if target == StatusCreated {
			if ref == "" || ref == PendingCarrierRef {
				return domain.NewValidationError("carrier booking reference is required")
			}
			if line == "" {
				return domain.NewValidationError("shipping line is required")
			}
			if remark == "" {
				remark = fmt.Sprintf("Booking Created. Carrier Ref: %s", ref)
			}
		}
	}

	now := time.Now().UTC()
	b.bookingRef = ref
	b.shippingLine = line
	if statusChanging {
		b.status = *p.Status
		b.timeline = append(b.timeline, TimelineEntry{
			Status: b.status,
			At:     now,
			By:     actor,
			Remark: remark,
		})
	}
	b.updatedAt = now
	return nil
}

// AssignCarrierInfo performs the PENDING → CREATED transition, supplying the
// carrier booking reference and shipping line in one patch.
func (b *Booking) AssignCarrierInfo(bookingRef, shippingLine, actor string) error {
	if b.status != StatusPending {
		return domain.NewInvalidStateError(b.status.String(), StatusCreated.String())
	}
	created := StatusCreated
	return b.ApplyPatch(Patch{
		Status:       &created,
		BookingRef:   &bookingRef,
		ShippingLine: &shippingLine,
	}, actor)
}

// Advance moves the booking to the next milestone in the canonical order.
// The returned status is the milestone reached.
func (b *Booking) Advance(actor, remark string) (Status, error) {
	next, ok := b.status.Next()
	if !ok {
		return "", domain.NewInvalidStateError(b.status.String(), "next")
	}
	if err := b.ApplyPatch(Patch{Status: &next, Remark: remark}, actor); err != nil {
		return "", err
	}
	return next, nil
}

// IsParticipant returns true if the identity is the booking's provider or
// client.
func (b *Booking) IsParticipant(identity string) bool {
	return identity != "" && (identity == b.provider || identity == b.client)
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
