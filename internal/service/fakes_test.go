package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"shorturl-go/internal/model"
)

// fakeLinkRepo is an in-memory LinkRepository with the same observable
// behavior as the gorm implementation: nil for absent codes, duplicate-key
// errors on short_code collisions, monotonically increasing ids.
type fakeLinkRepo struct {
	mu     sync.Mutex
	nextID uint64
	byCode map[string]*model.Link
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{byCode: make(map[string]*model.Link)}
}

func (r *fakeLinkRepo) Save(_ context.Context, link *model.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link.ShortCode != nil {
		if _, taken := r.byCode[*link.ShortCode]; taken {
			return gorm.ErrDuplicatedKey
		}
	}
	if link.ID == 0 {
		r.nextID++
		link.ID = r.nextID
	}
	if link.ShortCode != nil {
		cp := *link
		r.byCode[*link.ShortCode] = &cp
	}
	return nil
}

func (r *fakeLinkRepo) CreateWithGeneratedCode(_ context.Context, link *model.Link, encode func(id uint64) string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	link.ID = r.nextID
	code := encode(link.ID)
	if _, taken := r.byCode[code]; taken {
		// The unique index rejects the update and the transaction rolls
		// back, id included.
		link.ID = 0
		link.ShortCode = nil
		return gorm.ErrDuplicatedKey
	}
	link.ShortCode = &code
	cp := *link
	r.byCode[code] = &cp
	return nil
}

func (r *fakeLinkRepo) FindByShortCode(_ context.Context, shortCode string) (*model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.byCode[shortCode]
	if !ok {
		return nil, nil
	}
	cp := *link
	return &cp, nil
}

// fakeClickRepo collects click events in memory and aggregates over them.
type fakeClickRepo struct {
	mu     sync.Mutex
	events []model.ClickEvent
	// createGate, when set, blocks Create until the gate closes.
	createGate chan struct{}
}

func newFakeClickRepo() *fakeClickRepo {
	return &fakeClickRepo{}
}

func (r *fakeClickRepo) Create(_ context.Context, click *model.ClickEvent) error {
	if r.createGate != nil {
		<-r.createGate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	click.ID = uint64(len(r.events) + 1)
	r.events = append(r.events, *click)
	return nil
}

func (r *fakeClickRepo) CountByURLID(_ context.Context, urlID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.events {
		if e.URLID == urlID {
			n++
		}
	}
	return n, nil
}

func (r *fakeClickRepo) GroupCountByURLID(_ context.Context, urlID uint64, column string) ([]model.ValueCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, e := range r.events {
		if e.URLID != urlID {
			continue
		}
		switch column {
		case "country":
			counts[e.Country]++
		case "user_agent":
			counts[e.UserAgent]++
		case "referrer":
			counts[e.Referrer]++
		default:
			return nil, errors.New("unsupported group column")
		}
	}
	out := make([]model.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, model.ValueCount{Value: v, Clicks: c})
	}
	return out, nil
}

// fakeGeo returns a fixed country, or an error when failing is set.
type fakeGeo struct {
	country string
	failing bool
}

func (g fakeGeo) Country(context.Context, string) (string, error) {
	if g.failing {
		return "", errors.New("lookup timed out")
	}
	return g.country, nil
}
