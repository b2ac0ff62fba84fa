package ingest_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/cozyren/catalog-api/internal/application/ingest"
	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// memStore in-memory catalog with snapshot based savepoints.
type memStore struct {
	categories []entity.Category
	brands     []entity.Brand
	products   []entity.Product
	logs       []*entity.SyncLogEntry

	// failSavepointAt makes the n-th Record call (1-based) fail to open its savepoint.
	failSavepointAt int
	// failCreateSKU makes product inserts with this SKU fail.
	failCreateSKU string
	// failCommit makes RunBatch fail at commit.
	failCommit bool

	recordCalls int
	commits     int
	rollbacks   int
}

type memSnapshot struct {
	categories []entity.Category
	brands     []entity.Brand
	products   []entity.Product
}

func newMemStore() *memStore { return &memStore{} }

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		categories: append([]entity.Category(nil), s.categories...),
		brands:     append([]entity.Brand(nil), s.brands...),
		products:   append([]entity.Product(nil), s.products...),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.categories = snap.categories
	s.brands = snap.brands
	s.products = snap.products
}

func (s *memStore) repos() ingest.Repos {
	return ingest.Repos{
		Categories: memCategories{s},
		Brands:     memBrands{s},
		Products:   memProducts{s},
	}
}

// ─── BatchRunner / Batch ──────────────────────────────────────────────────────

func (s *memStore) RunBatch(ctx context.Context, fn func(b ingest.Batch) error) error {
	snap := s.snapshot()
	if err := fn(memBatch{s}); err != nil {
		s.restore(snap)
		s.rollbacks++
		return err
	}
	if s.failCommit {
		s.restore(snap)
		s.rollbacks++
		return &ingest.InfraError{Op: "commit transaction", Err: errors.New("connection lost")}
	}
	s.commits++
	return nil
}

type memBatch struct{ s *memStore }

func (b memBatch) Record(ctx context.Context, fn func(r ingest.Repos) error) error {
	b.s.recordCalls++
	if b.s.failSavepointAt == b.s.recordCalls {
		return &ingest.InfraError{Op: "savepoint", Err: errors.New("connection reset")}
	}
	snap := b.s.snapshot()
	if err := fn(b.s.repos()); err != nil {
		b.s.restore(snap)
		return err
	}
	return nil
}

// ─── SyncLogWriter ────────────────────────────────────────────────────────────

func (s *memStore) Append(ctx context.Context, e *entity.SyncLogEntry) error {
	cp := *e
	cp.ID = int64(len(s.logs) + 1)
	s.logs = append(s.logs, &cp)
	return nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

type memCategories struct{ s *memStore }

func (m memCategories) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	for i := range m.s.categories {
		if strings.EqualFold(m.s.categories[i].Name, name) {
			c := m.s.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (m memCategories) SearchByName(ctx context.Context, fragment string) ([]*entity.Category, error) {
	var out []*entity.Category
	for i := range m.s.categories {
		if strings.Contains(strings.ToLower(m.s.categories[i].Name), strings.ToLower(fragment)) {
			c := m.s.categories[i]
			out = append(out, &c)
		}
	}
	return out, nil
}

func (m memCategories) Create(ctx context.Context, c *entity.Category) error {
	if existing, _ := m.GetByName(ctx, c.Name); existing != nil {
		return domain.ErrDuplicate
	}
	m.s.categories = append(m.s.categories, *c)
	return nil
}

// ─── Brands ───────────────────────────────────────────────────────────────────

type memBrands struct{ s *memStore }

func (m memBrands) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	for i := range m.s.brands {
		if strings.EqualFold(m.s.brands[i].Name, name) {
			b := m.s.brands[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (m memBrands) SearchByName(ctx context.Context, fragment string) ([]*entity.Brand, error) {
	var out []*entity.Brand
	for i := range m.s.brands {
		if strings.Contains(strings.ToLower(m.s.brands[i].Name), strings.ToLower(fragment)) {
			b := m.s.brands[i]
			out = append(out, &b)
		}
	}
	return out, nil
}

func (m memBrands) Create(ctx context.Context, b *entity.Brand) error {
	if existing, _ := m.GetByName(ctx, b.Name); existing != nil {
		return domain.ErrDuplicate
	}
	m.s.brands = append(m.s.brands, *b)
	return nil
}

// ─── Products ─────────────────────────────────────────────────────────────────

type memProducts struct{ s *memStore }

func (m memProducts) FindForReconcile(ctx context.Context, sku, name, brandID string) (*entity.Product, error) {
	var bySKU, byName []entity.Product
	for _, p := range m.s.products {
		switch {
		case sku != "" && p.SKU == sku:
			bySKU = append(bySKU, p)
		case p.Name == name && p.BrandID != nil && *p.BrandID == brandID:
			byName = append(byName, p)
		}
	}
	for _, set := range [][]entity.Product{bySKU, byName} {
		if len(set) == 0 {
			continue
		}
		sort.SliceStable(set, func(i, j int) bool { return set[i].CreatedAt.Before(set[j].CreatedAt) })
		p := set[0]
		return &p, nil
	}
	return nil, nil
}

func (m memProducts) Create(ctx context.Context, p *entity.Product) error {
	if m.s.failCreateSKU != "" && p.SKU == m.s.failCreateSKU {
		return errors.New("simulated constraint violation")
	}
	m.s.products = append(m.s.products, *p)
	return nil
}

func (m memProducts) Update(ctx context.Context, p *entity.Product) error {
	for i := range m.s.products {
		if m.s.products[i].ID == p.ID {
			m.s.products[i] = *p
			return nil
		}
	}
	return domain.ErrNotFound
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func (s *memStore) productBySKU(sku string) *entity.Product {
	for i := range s.products {
		if s.products[i].SKU == sku {
			return &s.products[i]
		}
	}
	return nil
}

func (s *memStore) seedCategory(id, name string, created time.Time) {
	s.categories = append(s.categories, entity.Category{ID: id, Name: name, CreatedAt: created, UpdatedAt: created})
}

func (s *memStore) seedBrand(id, name string, created time.Time) {
	s.brands = append(s.brands, entity.Brand{ID: id, Name: name, CreatedAt: created, UpdatedAt: created})
}
