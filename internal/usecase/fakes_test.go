package usecase

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pawcompare/backend/internal/domain"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type baseRef struct {
	baseProductID string
	isBase        bool
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products []domain.ProductListing
	listErr  error

	derivedWeights map[string]*domain.WeightSpec
	derivedPrices  map[string]*domain.UnitPrice
	baseRefs       map[string]baseRef
	writeErrFor    map[string]error
}

func newFakeProductRepo(products ...domain.ProductListing) *fakeProductRepo {
	return &fakeProductRepo{
		products:       products,
		derivedWeights: make(map[string]*domain.WeightSpec),
		derivedPrices:  make(map[string]*domain.UnitPrice),
		baseRefs:       make(map[string]baseRef),
		writeErrFor:    make(map[string]error),
	}
}

func (r *fakeProductRepo) ListAll(ctx context.Context) ([]domain.ProductListing, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.products, nil
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id string) (*domain.ProductListing, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) SearchByName(ctx context.Context, pattern string) ([]domain.ProductListing, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	matches := make([]domain.ProductListing, 0)
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(pattern)) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *fakeProductRepo) ListByBrand(ctx context.Context, brand string) ([]domain.ProductListing, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	matches := make([]domain.ProductListing, 0)
	for _, p := range r.products {
		if strings.EqualFold(p.Brand, brand) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

func (r *fakeProductRepo) UpdateDerivedPricing(ctx context.Context, id string, weight *domain.WeightSpec, unitPrice *domain.UnitPrice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeErrFor[id]; err != nil {
		return err
	}
	r.derivedWeights[id] = weight
	r.derivedPrices[id] = unitPrice
	return nil
}

func (r *fakeProductRepo) SetBaseProductRef(ctx context.Context, id string, baseProductID string, isBase bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.writeErrFor[id]; err != nil {
		return err
	}
	r.baseRefs[id] = baseRef{baseProductID: baseProductID, isBase: isBase}
	return nil
}

type fakeGroupRepo struct {
	mu           sync.Mutex
	upserts      []domain.ProductGroup
	upsertErrFor map[string]error
	deleteCutoff time.Time
	deleteCount  int64
	deleteErr    error
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{upsertErrFor: make(map[string]error)}
}

func (r *fakeGroupRepo) Upsert(ctx context.Context, group domain.ProductGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.upsertErrFor[group.BaseProductName]; err != nil {
		return err
	}
	r.upserts = append(r.upserts, group)
	return nil
}

func (r *fakeGroupRepo) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	r.deleteCutoff = cutoff
	return r.deleteCount, nil
}

type fakeIndexer struct {
	mu      sync.Mutex
	batches [][]domain.ProductGroup
	err     error
}

func (f *fakeIndexer) IndexGroups(ctx context.Context, groups []domain.ProductGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, groups)
	return nil
}
