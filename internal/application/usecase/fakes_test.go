package usecase_test

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// In-memory repositories
// ──────────────────────────────────────────────────────────────────────────────

type fakeCategories struct{ rows map[string]*entity.Category }

func newFakeCategories() *fakeCategories { return &fakeCategories{rows: map[string]*entity.Category{}} }

func (f *fakeCategories) Create(_ context.Context, c *entity.Category) error {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) GetByID(_ context.Context, id string) (*entity.Category, error) {
	if c, ok := f.rows[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeCategories) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, name) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) SearchByName(context.Context, string) ([]*entity.Category, error) {
	return nil, nil
}

func (f *fakeCategories) Update(_ context.Context, c *entity.Category) error {
	if _, ok := f.rows[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	f.rows[c.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCategories) ListWithCounts(context.Context) ([]*entity.CategoryWithCount, error) {
	var out []*entity.CategoryWithCount
	for _, r := range f.rows {
		out = append(out, &entity.CategoryWithCount{Category: *r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeBrands struct{ rows map[string]*entity.Brand }

func newFakeBrands() *fakeBrands { return &fakeBrands{rows: map[string]*entity.Brand{}} }

func (f *fakeBrands) Create(_ context.Context, b *entity.Brand) error {
	for _, r := range f.rows {
		if strings.EqualFold(r.Name, b.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBrands) GetByID(_ context.Context, id string) (*entity.Brand, error) {
	if b, ok := f.rows[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeBrands) GetByName(context.Context, string) (*entity.Brand, error) { return nil, nil }

func (f *fakeBrands) SearchByName(context.Context, string) ([]*entity.Brand, error) { return nil, nil }

func (f *fakeBrands) Update(_ context.Context, b *entity.Brand) error {
	if _, ok := f.rows[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBrands) Delete(_ context.Context, id string) error {
	if _, ok := f.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBrands) ListWithCounts(context.Context) ([]*entity.BrandWithCount, error) {
	var out []*entity.BrandWithCount
	for _, r := range f.rows {
		out = append(out, &entity.BrandWithCount{Brand: *r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeProducts struct {
	rows     map[string]*entity.Product
	listArgs repository.ProductFilter
	total    int
}

func newFakeProducts() *fakeProducts { return &fakeProducts{rows: map[string]*entity.Product{}} }

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	if p, ok := f.rows[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProducts) Update(_ context.Context, p *entity.Product) error {
	if _, ok := f.rows[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakeProducts) Deactivate(_ context.Context, id string) error {
	p, ok := f.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (f *fakeProducts) FindForReconcile(context.Context, string, string, string) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeProducts) CountByCategory(_ context.Context, id string) (int, error) {
	n := 0
	for _, p := range f.rows {
		if p.CategoryID != nil && *p.CategoryID == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) CountByBrand(_ context.Context, id string) (int, error) {
	n := 0
	for _, p := range f.rows {
		if p.BrandID != nil && *p.BrandID == id {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) active() []*entity.ProductView {
	var out []*entity.ProductView
	for _, p := range f.rows {
		if p.IsActive {
			out = append(out, &entity.ProductView{Product: *p})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeProducts) ListActive(_ context.Context, filter repository.ProductFilter) ([]*entity.ProductView, int, error) {
	f.listArgs = filter
	all := f.active()
	total := len(all)
	if filter.Offset >= total {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > total {
		end = total
	}
	return all[filter.Offset:end], total, nil
}

func (f *fakeProducts) GetActiveView(_ context.Context, id string) (*entity.ProductView, error) {
	p, ok := f.rows[id]
	if !ok || !p.IsActive {
		return nil, nil
	}
	return &entity.ProductView{Product: *p}, nil
}

func (f *fakeProducts) Search(_ context.Context, q string, limit int) ([]*entity.ProductView, error) {
	var out []*entity.ProductView
	for _, v := range f.active() {
		if strings.Contains(strings.ToLower(v.Name), strings.ToLower(q)) && len(out) < limit {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListForPriceList(context.Context) ([]*entity.ProductView, error) {
	return f.active(), nil
}

type fakeSyncLog struct {
	entries []*entity.SyncLogEntry
	upserts []entity.SyncLogEntry
	nextID  int64
}

func (f *fakeSyncLog) Append(_ context.Context, e *entity.SyncLogEntry) error {
	f.nextID++
	e.ID = f.nextID
	cp := *e
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeSyncLog) Upsert(ctx context.Context, e *entity.SyncLogEntry) error {
	f.upserts = append(f.upserts, *e)
	for i, existing := range f.entries {
		if existing.SyncType == e.SyncType {
			cp := *e
			cp.ID = existing.ID
			cp.CreatedAt = existing.CreatedAt
			f.entries[i] = &cp
			return nil
		}
	}
	return f.Append(ctx, e)
}

func (f *fakeSyncLog) Latest(_ context.Context, syncType string) (*entity.SyncLogEntry, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].SyncType == syncType {
			cp := *f.entries[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSyncLog) List(_ context.Context, syncType string, limit int) ([]*entity.SyncLogEntry, error) {
	var out []*entity.SyncLogEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if syncType == "" || f.entries[i].SyncType == syncType {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Listing cache spy
// ──────────────────────────────────────────────────────────────────────────────

type spyCache struct {
	data        map[string][]byte
	hits        int
	invalidated int
}

func newSpyCache() *spyCache { return &spyCache{data: map[string][]byte{}} }

func (c *spyCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(raw, dest)
}

func (c *spyCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *spyCache) Invalidate(context.Context) error {
	c.invalidated++
	c.data = map[string][]byte{}
	return nil
}
