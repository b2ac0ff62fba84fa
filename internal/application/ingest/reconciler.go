package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cozyren/catalog-api/internal/domain/entity"
)

// Outcome of reconciling one record.
type Outcome int

const (
	OutcomeCreated Outcome = iota + 1
	OutcomeUpdated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Reconciler applies one record to the catalog: update the matching product or create one.
type Reconciler struct {
	resolver *Resolver
	now      func() time.Time
	newID    func() string
}

// NewReconciler builds a reconciler on top of resolver.
func NewReconciler(resolver *Resolver) *Reconciler {
	return &Reconciler{resolver: resolver, now: time.Now, newID: uuid.NewString}
}

// Reconcile coerces raw, resolves its category and brand and writes the product.
// Errors are record errors; the caller rolls the record back.
func (rc *Reconciler) Reconcile(ctx context.Context, repos Repos, raw RawRecord) (Outcome, error) {
	in, err := Normalize(raw)
	if err != nil {
		return 0, err
	}

	categoryID, err := rc.resolver.ResolveCategory(ctx, repos, in.Category)
	if err != nil {
		return 0, err
	}
	brandID, err := rc.resolver.ResolveBrand(ctx, repos, in.Brand)
	if err != nil {
		return 0, err
	}

	existing, err := repos.Products.FindForReconcile(ctx, in.SKU, in.Name, brandID)
	if err != nil {
		return 0, fmt.Errorf("find product: %w", err)
	}

	now := rc.now()
	if existing != nil {
		existing.Name = in.Name
		existing.Description = in.Description
		existing.Price = in.Price
		existing.CategoryID = &categoryID
		existing.BrandID = &brandID
		existing.StockQuantity = in.StockQuantity
		existing.UpdatedAt = now
		if err := repos.Products.Update(ctx, existing); err != nil {
			return 0, fmt.Errorf("update product: %w", err)
		}
		return OutcomeUpdated, nil
	}

	p := &entity.Product{
		ID:             rc.newID(),
		Name:           in.Name,
		Description:    in.Description,
		Price:          in.Price,
		CategoryID:     &categoryID,
		BrandID:        &brandID,
		SKU:            in.SKU,
		StockQuantity:  in.StockQuantity,
		Specifications: json.RawMessage(`{}`),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repos.Products.Create(ctx, p); err != nil {
		return 0, fmt.Errorf("create product: %w", err)
	}
	return OutcomeCreated, nil
}
