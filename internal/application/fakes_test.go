package application

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/freightdesk/service-booking/internal/domain"
	bookingDomain "github.com/freightdesk/service-booking/internal/domain/booking"
	"github.com/freightdesk/service-booking/internal/domain/masters"
	offerDomain "github.com/freightdesk/service-booking/internal/domain/offer"
)

// In-memory repository fakes used by the service tests. They mimic the
// persistence contracts including optimistic-lock conflicts.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	// conflictOnUpdate makes the next Update fail the optimistic lock.
	conflictOnUpdate bool
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*bookingDomain.Booking)}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("booking", id.String())
	}
	return bk, nil
}

func (r *fakeBookingRepo) FindByOfferID(_ context.Context, offerID uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.OfferID() == offerID {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("booking for offer", offerID.String())
}

func (r *fakeBookingRepo) FindByParticipant(_ context.Context, identities []string, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*bookingDomain.Booking
	for _, bk := range r.bookings {
		for _, id := range identities {
			if bk.IsParticipant(id) {
				matched = append(matched, bk)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})
	return paginate(matched, page, limit), int64(len(matched)), nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		all = append(all, bk)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt().After(all[j].CreatedAt())
	})
	return paginate(all, page, limit), int64(len(all)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[bk.ID()] = bk
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictOnUpdate {
		r.conflictOnUpdate = false
		return domain.NewConflictError("booking was modified concurrently, please retry")
	}
	if _, ok := r.bookings[bk.ID()]; !ok {
		return domain.NewNotFoundError("booking", bk.ID().String())
	}
	r.bookings[bk.ID()] = bk
	return nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[uuid.UUID]*offerDomain.Offer
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{offers: make(map[uuid.UUID]*offerDomain.Offer)}
}

func (r *fakeOfferRepo) FindByID(_ context.Context, id uuid.UUID) (*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	off, ok := r.offers[id]
	if !ok {
		return nil, domain.NewNotFoundError("offer", id.String())
	}
	return off, nil
}

func (r *fakeOfferRepo) FindByNumber(_ context.Context, number string) (*offerDomain.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, off := range r.offers {
		if off.OfferNumber() == number {
			return off, nil
		}
	}
	return nil, domain.NewNotFoundError("offer", number)
}

func (r *fakeOfferRepo) ListOpen(_ context.Context, page, limit int) ([]*offerDomain.Offer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []*offerDomain.Offer
	for _, off := range r.offers {
		if off.Status() == offerDomain.OfferStatusOpen {
			open = append(open, off)
		}
	}
	sort.Slice(open, func(i, j int) bool {
		return open[i].CreatedAt().After(open[j].CreatedAt())
	})
	return paginate(open, page, limit), int64(len(open)), nil
}

func (r *fakeOfferRepo) FindByCreator(_ context.Context, createdBy string, page, limit int) ([]*offerDomain.Offer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []*offerDomain.Offer
	for _, off := range r.offers {
		if off.IsCreatedBy(createdBy) {
			mine = append(mine, off)
		}
	}
	sort.Slice(mine, func(i, j int) bool {
		return mine[i].CreatedAt().After(mine[j].CreatedAt())
	})
	return paginate(mine, page, limit), int64(len(mine)), nil
}

func (r *fakeOfferRepo) Save(_ context.Context, off *offerDomain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offers[off.ID()] = off
	return nil
}

func (r *fakeOfferRepo) Update(_ context.Context, off *offerDomain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[off.ID()]; !ok {
		return domain.NewNotFoundError("offer", off.ID().String())
	}
	r.offers[off.ID()] = off
	return nil
}

type fakeShippingLineRepo struct {
	lines []*masters.ShippingLine
}

func newFakeShippingLineRepo() *fakeShippingLineRepo {
	repo := &fakeShippingLineRepo{}
	for _, seed := range masters.DefaultShippingLines {
		line, _ := masters.NewShippingLine(seed.Name, seed.SCAC)
		repo.lines = append(repo.lines, line)
	}
	return repo
}

func (r *fakeShippingLineRepo) List(_ context.Context) ([]*masters.ShippingLine, error) {
	return r.lines, nil
}

func (r *fakeShippingLineRepo) FindByName(_ context.Context, name string) (*masters.ShippingLine, error) {
	for _, line := range r.lines {
		if line.Name() == name {
			return line, nil
		}
	}
	return nil, domain.NewNotFoundError("shipping line", name)
}

func (r *fakeShippingLineRepo) Save(_ context.Context, line *masters.ShippingLine) error {
	r.lines = append(r.lines, line)
	return nil
}

func (r *fakeShippingLineRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.lines)), nil
}

func paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = len(items)
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
