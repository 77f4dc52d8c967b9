package offer

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/freightdesk/service-booking/internal/domain"
	"github.com/google/uuid"
)

const offerNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// OfferStatus represents the lifecycle state of a freight-rate offer.
type OfferStatus string

const (
	OfferStatusOpen      OfferStatus = "OPEN"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusWithdrawn OfferStatus = "WITHDRAWN"
)

// Offer is a freight-rate proposal. Once accepted it seeds exactly one
// booking; the booking takes a copy of its fields and the offer itself is
// immutable from then on.
type Offer struct {
	id          uuid.UUID
	offerNumber string

	originPort      string
	destinationPort string
	loadType        string
	quantity        int
	commodity       string
	vesselName      string
	voyage          string

	ratePerUnit int64
	currency    string
	validUntil  *time.Time

	createdBy      string
	acceptedBy     string
	acceptedByName string
	status         OfferStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateOfferNumber creates an offer number in the format "OF-XXXXXX".
func generateOfferNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(offerNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate offer number: %w", err)
		}
		result[i] = offerNumberChars[n.Int64()]
	}
	return "OF-" + string(result), nil
}

// NewOffer creates a new open offer with validated fields.
func NewOffer(
	createdBy string,
	originPort, destinationPort, loadType string,
	quantity int,
	commodity, vesselName, voyage string,
	ratePerUnit int64,
	currency string,
	validUntil *time.Time,
) (*Offer, error) {
	if createdBy == "" {
		return nil, domain.NewValidationError("creator identity is required")
	}
	if originPort == "" {
		return nil, domain.NewValidationError("origin port is required")
	}
	if destinationPort == "" {
		return nil, domain.NewValidationError("destination port is required")
	}
	if quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be positive")
	}
	if ratePerUnit <= 0 {
		return nil, domain.NewValidationError("rate must be positive")
	}

	offerNumber, err := generateOfferNumber()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Offer{
		id:              uuid.New(),
		offerNumber:     offerNumber,
		originPort:      originPort,
		destinationPort: destinationPort,
		loadType:        loadType,
		quantity:        quantity,
		commodity:       commodity,
		vesselName:      vesselName,
		voyage:          voyage,
		ratePerUnit:     ratePerUnit,
		currency:        currency,
		validUntil:      validUntil,
		createdBy:       createdBy,
		status:          OfferStatusOpen,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds an Offer from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	offerNumber string,
	originPort, destinationPort, loadType string,
	quantity int,
	commodity, vesselName, voyage string,
	ratePerUnit int64,
	currency string,
	validUntil *time.Time,
	createdBy, acceptedBy, acceptedByName string,
	status OfferStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Offer {
	return &Offer{
		id:              id,
		offerNumber:     offerNumber,
		originPort:      originPort,
		destinationPort: destinationPort,
		loadType:        loadType,
		quantity:        quantity,
		commodity:       commodity,
		vesselName:      vesselName,
		voyage:          voyage,
		ratePerUnit:     ratePerUnit,
		currency:        currency,
		validUntil:      validUntil,
		createdBy:       createdBy,
		acceptedBy:      acceptedBy,
		acceptedByName:  acceptedByName,
		status:          status,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (o *Offer) ID() uuid.UUID           { return o.id }
func (o *Offer) OfferNumber() string     { return o.offerNumber }
func (o *Offer) OriginPort() string      { return o.originPort }
func (o *Offer) DestinationPort() string { return o.destinationPort }
func (o *Offer) LoadType() string        { return o.loadType }
func (o *Offer) Quantity() int           { return o.quantity }
func (o *Offer) Commodity() string       { return o.commodity }
func (o *Offer) VesselName() string      { return o.vesselName }
func (o *Offer) Voyage() string          { return o.voyage }
func (o *Offer) RatePerUnit() int64      { return o.ratePerUnit }
func (o *Offer) Currency() string        { return o.currency }
func (o *Offer) ValidUntil() *time.Time  { return o.validUntil }
func (o *Offer) CreatedBy() string       { return o.createdBy }
func (o *Offer) AcceptedBy() string      { return o.acceptedBy }
func (o *Offer) AcceptedByName() string  { return o.acceptedByName }
func (o *Offer) Status() OfferStatus     { return o.status }
func (o *Offer) Version() int64          { return o.version }
func (o *Offer) CreatedAt() time.Time    { return o.createdAt }
func (o *Offer) UpdatedAt() time.Time    { return o.updatedAt }

// --- Behavior ---

// Accept marks the offer as accepted by the given party. An offer can be
// accepted only while open, never by its own creator, and only once.
func (o *Offer) Accept(acceptedBy, acceptedByName string) error {
	if o.status != OfferStatusOpen {
		return domain.NewInvalidStateError(string(o.status), string(OfferStatusAccepted))
	}
	if acceptedBy == "" {
		return domain.NewValidationError("accepting identity is required")
	}
	if acceptedBy == o.createdBy {
		return domain.NewValidationError("an offer cannot be accepted by its creator")
	}
	if o.validUntil != nil && time.Now().UTC().After(*o.validUntil) {
		return domain.NewValidationError("offer validity has expired")
	}
	o.acceptedBy = acceptedBy
	o.acceptedByName = acceptedByName
	o.status = OfferStatusAccepted
	o.updatedAt = time.Now().UTC()
	return nil
}

// Withdraw closes an open offer without acceptance.
func (o *Offer) Withdraw() error {
	if o.status != OfferStatusOpen {
		return domain.NewInvalidStateError(string(o.status), string(OfferStatusWithdrawn))
	}
	o.status = OfferStatusWithdrawn
	o.updatedAt = time.Now().UTC()
	return nil
}

// IsCreatedBy checks if the offer belongs to the given creator.
func (o *Offer) IsCreatedBy(identity string) bool {
	return o.createdBy == identity
}

// IncrementVersion bumps the version for optimistic locking.
func (o *Offer) IncrementVersion() {
	o.version++
	o.updatedAt = time.Now().UTC()
}
