package booking

import "fmt"

// Status represents a milestone in the booking lifecycle.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusCreated         Status = "CREATED"
	StatusDOIssued        Status = "DO_ISSUED"
	StatusCustomClearance Status = "CUSTOM_CLEARANCE"
	StatusCargoLoad       Status = "CARGO_LOAD"
	StatusGateIn          Status = "GATE_IN"
	StatusGateClose       Status = "GATE_CLOSE"
	StatusVesselSailed    Status = "VESSEL_SAILED"
	StatusLoadDischarged  Status = "LOAD_DISCHARGED"
)

// StatusOrder is the canonical milestone sequence. A booking only ever moves
// one step forward along it; LOAD_DISCHARGED has no successor.
var StatusOrder = []Status{
	StatusPending,
	StatusCreated,
	StatusDOIssued,
	StatusCustomClearance,
	StatusCargoLoad,
	StatusGateIn,
	StatusGateClose,
	StatusVesselSailed,
	StatusLoadDischarged,
}

var statusIndex = func() map[Status]int {
	m := make(map[Status]int, len(StatusOrder))
	for i, s := range StatusOrder {
		m[s] = i
	}
	return m
}()

// Index returns the position of the status in the canonical order, or -1 if
// the status is not recognized.
func (s Status) Index() int {
	i, ok := statusIndex[s]
	if !ok {
		return -1
	}
	return i
}

// IsValid returns true if the status is a recognized milestone.
func (s Status) IsValid() bool {
	_, ok := statusIndex[s]
	return ok
}

// Next returns the milestone that follows this one. The second return value
// is false when the status is terminal or unrecognized.
func (s Status) Next() (Status, bool) {
	i, ok := statusIndex[s]
	if !ok || i+1 >= len(StatusOrder) {
		return "", false
	}
	return StatusOrder[i+1], true
}

// IsTerminal returns true if no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusLoadDischarged
}

// CanTransitionTo returns true if target is exactly the next milestone in the
// canonical order. Skips and regressions are never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	next, ok := s.Next()
	return ok && target == next
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a string to a Status, returning an error if invalid.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
