package usecase

import (
	"catalog-import-service/internal/core/domain"
	"context"
	"fmt"
	"strings"
	"sync"
)

type memStore struct {
	mu      sync.Mutex
	catalog domain.Catalog
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{catalog: *domain.NewCatalog()}
}

func (s *memStore) Load(ctx context.Context) (*domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return &domain.Catalog{
		Version:   s.catalog.Version,
		Listings:  append([]domain.Listing{}, s.catalog.Listings...),
		Complexes: append([]domain.Complex{}, s.catalog.Complexes...),
	}, nil
}

func (s *memStore) Save(ctx context.Context, catalog *domain.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	if catalog.Version != s.catalog.Version {
		return domain.ErrCatalogConflict
	}
	catalog.Version++
	s.catalog = domain.Catalog{
		Version:   catalog.Version,
		Listings:  append([]domain.Listing{}, catalog.Listings...),
		Complexes: append([]domain.Complex{}, catalog.Complexes...),
	}
	return nil
}

type fakeLocker struct {
	err      error
	locked   []string
	released int
}

func (l *fakeLocker) Lock(ctx context.Context, sourceID string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.locked = append(l.locked, sourceID)
	return func() { l.released++ }, nil
}

type fakeReporter struct {
	reports []*domain.ImportReport
	err     error
}

func (r *fakeReporter) ReportImport(ctx context.Context, report *domain.ImportReport) error {
	r.reports = append(r.reports, report)
	return r.err
}

type seqIDs struct {
	next int
}

func (g *seqIDs) NewID() string {
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}

func (g *seqIDs) Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
