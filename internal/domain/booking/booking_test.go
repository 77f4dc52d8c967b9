package booking

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdesk/service-booking/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	bk, err := NewBookingFromOffer(
		uuid.New(),
		"OF-TEST01",
		RouteSpec{OriginPort: "Mundra (INMUN)", DestinationPort: "Jebel Ali (AEJEA)"},
		CargoSpec{LoadType: "FCL", Quantity: 20, Commodity: "Raw Materials"},
		VesselSpec{VesselName: "MV Horizon", Voyage: "VX-204"},
		"providerX",
		"clientY",
		"Client Y Co",
	)
	require.NoError(t, err)
	return bk
}

// walkToStatus advances the booking from PENDING up to target, assigning
// carrier info along the way.
func walkToStatus(t *testing.T, bk *Booking, target Status) {
	t.Helper()
	require.NoError(t, bk.AssignCarrierInfo("MAEU123456789", "Maersk Line", "providerX"))
	for bk.Status() != target {
		_, err := bk.Advance("providerX", "")
		require.NoError(t, err)
	}
}

func TestNewBookingFromOffer_CreationInvariant(t *testing.T) {
	bk := newTestBooking(t)

	assert.NotEqual(t, uuid.Nil, bk.ID())
	assert.Equal(t, StatusPending, bk.Status())
	assert.Equal(t, PendingCarrierRef, bk.BookingRef())
	assert.Empty(t, bk.ShippingLine())
	assert.Equal(t, "providerX", bk.Provider())
	assert.Equal(t, "clientY", bk.Client())
	assert.Equal(t, "Client Y Co", bk.ClientName())
	assert.Equal(t, "Mundra (INMUN)", bk.Route().OriginPort)
	assert.Equal(t, "Jebel Ali (AEJEA)", bk.Route().DestinationPort)
	assert.Equal(t, 20, bk.Cargo().Quantity)
	assert.Equal(t, "Raw Materials", bk.Cargo().Commodity)
	assert.Equal(t, int64(1), bk.Version())

	require.Len(t, bk.Timeline(), 1)
	entry := bk.Timeline()[0]
	assert.Equal(t, StatusPending, entry.Status)
	assert.Equal(t, SystemActor, entry.By)
	assert.Equal(t, "Booking generated automatically from Accepted Offer", entry.Remark)
}

func TestNewBookingFromOffer_Validation(t *testing.T) {
	_, err := NewBookingFromOffer(
		uuid.Nil, "OF-X",
		RouteSpec{OriginPort: "A", DestinationPort: "B"},
		CargoSpec{Quantity: 1}, VesselSpec{},
		"p", "c", "C",
	)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewBookingFromOffer(
		uuid.New(), "OF-X",
		RouteSpec{OriginPort: "", DestinationPort: "B"},
		CargoSpec{Quantity: 1}, VesselSpec{},
		"p", "c", "C",
	)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewBookingFromOffer(
		uuid.New(), "OF-X",
		RouteSpec{OriginPort: "A", DestinationPort: "B"},
		CargoSpec{Quantity: 0}, VesselSpec{},
		"p", "c", "C",
	)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestAssignCarrierInfo_CreatesWithRemark(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.AssignCarrierInfo("MAEU123456789", "Maersk Line", "providerX")
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, bk.Status())
	assert.Equal(t, "MAEU123456789", bk.BookingRef())
	assert.Equal(t, "Maersk Line", bk.ShippingLine())

	require.Len(t, bk.Timeline(), 2)
	entry := bk.Timeline()[1]
	assert.Equal(t, StatusCreated, entry.Status)
	assert.Equal(t, "providerX", entry.By)
	assert.Contains(t, entry.Remark, "MAEU123456789")
}

func TestAssignCarrierInfo_Validation(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		line string
	}{
		{"blank reference", "   ", "Maersk Line"},
		{"sentinel as reference", "PENDING", "Maersk Line"},
		{"blank shipping line", "MAEU1", "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bk := newTestBooking(t)
			err := bk.AssignCarrierInfo(tt.ref, tt.line, "providerX")
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

			// Rejection leaves the booking untouched.
			assert.Equal(t, StatusPending, bk.Status())
			assert.Equal(t, PendingCarrierRef, bk.BookingRef())
			assert.Len(t, bk.Timeline(), 1)
		})
	}
}

func TestAssignCarrierInfo_OnlyFromPending(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.AssignCarrierInfo("MAEU1", "Maersk Line", "providerX"))

	err := bk.AssignCarrierInfo("MAEU2", "MSC", "providerX")
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	assert.Equal(t, "MAEU1", bk.BookingRef())
	assert.Len(t, bk.Timeline(), 2)
}

func TestAdvance_FullLifecycle(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.AssignCarrierInfo("MAEU123456789", "Maersk Line", "providerX"))

	for i := StatusCreated.Index() + 1; i < len(StatusOrder); i++ {
		reached, err := bk.Advance("providerX", "")
		require.NoError(t, err)
		assert.Equal(t, StatusOrder[i], reached)
		assert.Equal(t, StatusOrder[i], bk.Status())
	}

	// 1 creation entry + 8 transitions.
	assert.Len(t, bk.Timeline(), len(StatusOrder))
	assert.Equal(t, StatusLoadDischarged, bk.Status())
}

func TestAdvance_TerminalRejected(t *testing.T) {
	bk := newTestBooking(t)
	walkToStatus(t, bk, StatusLoadDischarged)
	before := len(bk.Timeline())

	_, err := bk.Advance("providerX", "")
	assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	assert.Equal(t, StatusLoadDischarged, bk.Status())
	assert.Len(t, bk.Timeline(), before)
}

func TestAdvance_PendingNeedsCarrierInfo(t *testing.T) {
	// The generic advance from PENDING targets CREATED, which demands
	// carrier data; without it the advance is rejected.
	bk := newTestBooking(t)

	_, err := bk.Advance("providerX", "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, StatusPending, bk.Status())
	assert.Len(t, bk.Timeline(), 1)
}

func TestApplyPatch_SkipRejected(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.AssignCarrierInfo("MAEU1", "Maersk Line", "providerX"))

	for _, target := range []Status{StatusGateIn, StatusLoadDischarged, StatusPending} {
		status := target
		err := bk.ApplyPatch(Patch{Status: &status}, "providerX")
		assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err), "target %s", target)
	}
	assert.Equal(t, StatusCreated, bk.Status())
	assert.Len(t, bk.Timeline(), 2)
}

func TestApplyPatch_UnknownStatusRejected(t *testing.T) {
	bk := newTestBooking(t)
	bogus := Status("TELEPORTED")
	err := bk.ApplyPatch(Patch{Status: &bogus}, "providerX")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Len(t, bk.Timeline(), 1)
}

func TestApplyPatch_UnchangedStatusAppendsNothing(t *testing.T) {
	bk := newTestBooking(t)

	pending := StatusPending
	err := bk.ApplyPatch(Patch{Status: &pending, Remark: "still waiting"}, "providerX")
	require.NoError(t, err)

	assert.Equal(t, StatusPending, bk.Status())
	assert.Len(t, bk.Timeline(), 1)
}

func TestApplyPatch_CarrierFieldsOnlyOnCreatedTransition(t *testing.T) {
	// A carrier-reference write that does not ride the CREATED transition is
	// rejected, so the sentinel reference holds exactly while PENDING.
	bk := newTestBooking(t)

	ref := "DRAFT-REF"
	err := bk.ApplyPatch(Patch{BookingRef: &ref}, "providerX")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, PendingCarrierRef, bk.BookingRef())

	pending := StatusPending
	err = bk.ApplyPatch(Patch{Status: &pending, BookingRef: &ref}, "providerX")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, PendingCarrierRef, bk.BookingRef())
	assert.Len(t, bk.Timeline(), 1)
}

func TestApplyPatch_CarrierFieldsLockedAfterCreated(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.AssignCarrierInfo("MAEU1", "Maersk Line", "providerX"))

	ref := "HLCU999"
	err := bk.ApplyPatch(Patch{BookingRef: &ref}, "providerX")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, "MAEU1", bk.BookingRef())

	line := "Hapag-Lloyd"
	err = bk.ApplyPatch(Patch{ShippingLine: &line}, "providerX")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	assert.Equal(t, "Maersk Line", bk.ShippingLine())
}

func TestApplyPatch_RequiresActor(t *testing.T) {
	bk := newTestBooking(t)
	created := StatusCreated
	err := bk.ApplyPatch(Patch{Status: &created}, "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestTimeline_MonotonicAndAppendOnly(t *testing.T) {
	bk := newTestBooking(t)
	walkToStatus(t, bk, StatusLoadDischarged)

	timeline := bk.Timeline()
	require.Len(t, timeline, len(StatusOrder))

	for i, entry := range timeline {
		assert.Equal(t, StatusOrder[i], entry.Status)
		if i > 0 {
			assert.Greater(t, entry.Status.Index(), timeline[i-1].Status.Index())
			assert.False(t, entry.At.Before(timeline[i-1].At))
		}
	}

	// Current status is always derivable from the last entry.
	last, ok := timeline.Last()
	require.True(t, ok)
	assert.Equal(t, bk.Status(), last.Status)
}

func TestTimeline_Reversed(t *testing.T) {
	bk := newTestBooking(t)
	walkToStatus(t, bk, StatusDOIssued)

	reversed := bk.Timeline().Reversed()
	require.Len(t, reversed, 3)
	assert.Equal(t, StatusDOIssued, reversed[0].Status)
	assert.Equal(t, StatusPending, reversed[2].Status)

	// The original is untouched.
	assert.Equal(t, StatusPending, bk.Timeline()[0].Status)
}

func TestBookingRef_SentinelIffPending(t *testing.T) {
	bk := newTestBooking(t)
	assert.Equal(t, PendingCarrierRef, bk.BookingRef())

	require.NoError(t, bk.AssignCarrierInfo("MAEU42", "MSC", "providerX"))
	for {
		assert.NotEqual(t, PendingCarrierRef, bk.BookingRef())
		if bk.Status().IsTerminal() {
			break
		}
		_, err := bk.Advance("providerX", "")
		require.NoError(t, err)
	}
}

func TestIsParticipant(t *testing.T) {
	bk := newTestBooking(t)
	assert.True(t, bk.IsParticipant("providerX"))
	assert.True(t, bk.IsParticipant("clientY"))
	assert.False(t, bk.IsParticipant("stranger"))
	assert.False(t, bk.IsParticipant(""))
}

func TestIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	require.Equal(t, int64(1), bk.Version())
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}

func TestReconstructBooking_RoundTrip(t *testing.T) {
	original := newTestBooking(t)
	walkToStatus(t, original, StatusCargoLoad)

	rebuilt := ReconstructBooking(
		original.ID(),
		original.OfferID(),
		original.OfferNumber(),
		original.Route(),
		original.Cargo(),
		original.Vessel(),
		original.BookingRef(),
		original.ShippingLine(),
		original.Status(),
		original.Provider(),
		original.Client(),
		original.ClientName(),
		original.Timeline(),
		original.Version(),
		original.CreatedAt(),
		original.UpdatedAt(),
	)

	assert.Equal(t, original.Status(), rebuilt.Status())
	assert.Equal(t, original.BookingRef(), rebuilt.BookingRef())
	assert.Equal(t, original.Timeline(), rebuilt.Timeline())

	// The rebuilt aggregate keeps enforcing the state machine.
	reached, err := rebuilt.Advance("providerX", fmt.Sprintf("gate in at %s", rebuilt.Route().OriginPort))
	require.NoError(t, err)
	assert.Equal(t, StatusGateIn, reached)
}
