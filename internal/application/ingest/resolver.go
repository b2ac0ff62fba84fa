package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// Names used when a record carries no category or brand.
const (
	DefaultCategoryName = "Другое"
	DefaultBrandName    = "Неизвестно"
)

// Resolver maps free-text category and brand names to ids, creating rows on a miss.
type Resolver struct {
	now   func() time.Time
	newID func() string
}

// NewResolver builds a resolver that stamps new rows with time.Now and random UUIDs.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now, newID: uuid.NewString}
}

type candidate struct {
	id        string
	name      string
	createdAt time.Time
}

// ResolveCategory returns the id of the category name refers to.
func (r *Resolver) ResolveCategory(ctx context.Context, repos Repos, name string) (string, error) {
	return resolveNamed(ctx, r, namedKind[entity.Category]{
		label:    "category",
		fallback: DefaultCategoryName,
		store:    repos.Categories,
		describe: func(c *entity.Category) candidate {
			return candidate{id: c.ID, name: c.Name, createdAt: c.CreatedAt}
		},
		build: func(id, name string, now time.Time) *entity.Category {
			return &entity.Category{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
		},
	}, name)
}

// ResolveBrand returns the id of the brand name refers to.
func (r *Resolver) ResolveBrand(ctx context.Context, repos Repos, name string) (string, error) {
	return resolveNamed(ctx, r, namedKind[entity.Brand]{
		label:    "brand",
		fallback: DefaultBrandName,
		store:    repos.Brands,
		describe: func(b *entity.Brand) candidate {
			return candidate{id: b.ID, name: b.Name, createdAt: b.CreatedAt}
		},
		build: func(id, name string, now time.Time) *entity.Brand {
			return &entity.Brand{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
		},
	}, name)
}

// namedStore is satisfied by CategoryStore and BrandStore.
type namedStore[T any] interface {
	GetByName(ctx context.Context, name string) (*T, error)
	SearchByName(ctx context.Context, fragment string) ([]*T, error)
	Create(ctx context.Context, row *T) error
}

// namedKind binds one name-keyed table to the resolver.
type namedKind[T any] struct {
	label    string
	fallback string
	store    namedStore[T]
	describe func(*T) candidate
	build    func(id, name string, now time.Time) *T
}

// resolveNamed looks up the sentinel by exact name when name is blank, otherwise picks among
// substring matches; a miss inserts a row with the exact trimmed name.
func resolveNamed[T any](ctx context.Context, r *Resolver, k namedKind[T], name string) (string, error) {
	name = strings.TrimSpace(name)
	exact := name
	if exact == "" {
		exact = k.fallback
	}

	lookup := func() (string, error) {
		row, err := k.store.GetByName(ctx, exact)
		if err != nil || row == nil {
			return "", err
		}
		return k.describe(row).id, nil
	}

	if name == "" {
		if id, err := lookup(); err != nil || id != "" {
			return id, err
		}
	} else {
		found, err := k.store.SearchByName(ctx, name)
		if err != nil {
			return "", fmt.Errorf("search %s: %w", k.label, err)
		}
		cands := make([]candidate, 0, len(found))
		for _, row := range found {
			cands = append(cands, k.describe(row))
		}
		if id := pickCandidate(cands, name); id != "" {
			return id, nil
		}
	}

	id := r.newID()
	if err := k.store.Create(ctx, k.build(id, exact, r.now())); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return reread(lookup)
		}
		return "", fmt.Errorf("create %s: %w", k.label, err)
	}
	return id, nil
}

// pickCandidate orders substring matches: exact (case-insensitive) name, then shortest name,
// then oldest row, then lowest id. Empty when there are no candidates.
func pickCandidate(cands []candidate, name string) string {
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		ae, be := strings.EqualFold(a.name, name), strings.EqualFold(b.name, name)
		if ae != be {
			return ae
		}
		al, bl := utf8.RuneCountInString(a.name), utf8.RuneCountInString(b.name)
		if al != bl {
			return al < bl
		}
		if !a.createdAt.Equal(b.createdAt) {
			return a.createdAt.Before(b.createdAt)
		}
		return a.id < b.id
	})
	return cands[0].id
}

// reread resolves a lost insert race by reading the row the other writer created.
func reread(lookup func() (string, error)) (string, error) {
	id, err := lookup()
	if err == nil && id == "" {
		return "", fmt.Errorf("reread after duplicate: %w", domain.ErrNotFound)
	}
	return id, err
}
