package masters

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShippingLine is a master-data record for a known ocean carrier. The
// carrier-info form offers these as choices; a booking may still carry a
// manually typed line name when the user opts into manual entry.
type ShippingLine struct {
	id        uuid.UUID
	name      string
	scac      string
	createdAt time.Time
}

// NewShippingLine creates a master shipping-line record.
func NewShippingLine(name, scac string) (*ShippingLine, error) {
	if name == "" {
		return nil, fmt.Errorf("shipping line name is required")
	}
	return &ShippingLine{
		id:        uuid.New(),
		name:      name,
		scac:      scac,
		createdAt: time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a ShippingLine from persistence.
func Reconstruct(id uuid.UUID, name, scac string, createdAt time.Time) *ShippingLine {
	return &ShippingLine{id: id, name: name, scac: scac, createdAt: createdAt}
}

func (l *ShippingLine) ID() uuid.UUID        { return l.id }
func (l *ShippingLine) Name() string         { return l.name }
func (l *ShippingLine) SCAC() string         { return l.scac }
func (l *ShippingLine) CreatedAt() time.Time { return l.createdAt }

// DefaultShippingLines is the seed set loaded into an empty master list.
var DefaultShippingLines = []struct {
	Name string
	SCAC string
}{
	{"Maersk Line", "MAEU"},
	{"MSC", "MSCU"},
	{"CMA CGM", "CMDU"},
	{"Hapag-Lloyd", "HLCU"},
	{"Evergreen Line", "EGLV"},
	{"Ocean Network Express", "ONEY"},
	{"COSCO Shipping", "COSU"},
	{"HMM", "HDMU"},
}
