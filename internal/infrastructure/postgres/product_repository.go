package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo ProductRepository over PostgreSQL (pool or tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository builds the adapter. Pass the pool or a tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, description, price, category_id, brand_id, sku, stock_quantity,
	specifications, image_url, is_active, created_at, updated_at`

const productViewColumns = `p.id, p.name, p.description, p.price, p.category_id, p.brand_id, p.sku, p.stock_quantity,
	p.specifications, p.image_url, p.is_active, p.created_at, p.updated_at,
	c.name, c.description, b.name, b.description, b.logo_url`

const productViewFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN brands b ON b.id = p.brand_id`

func productDest(p *entity.Product) []any {
	return []any{
		&p.ID, &p.Name, &p.Description, &p.Price, &p.CategoryID, &p.BrandID, &p.SKU, &p.StockQuantity,
		&p.Specifications, &p.ImageURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	}
}

func scanProduct(row scanner) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(productDest(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProductView(row scanner) (*entity.ProductView, error) {
	var v entity.ProductView
	dest := append(productDest(&v.Product),
		&v.CategoryName, &v.CategoryDescription, &v.BrandName, &v.BrandDescription, &v.BrandLogo)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &v, nil
}

func specificationsOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}

// Create inserts the product. Unknown category or brand ids are ErrInvalidInput.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, category_id, brand_id, sku, stock_quantity,
			specifications, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, nullableID(p.CategoryID), nullableID(p.BrandID), p.SKU, p.StockQuantity,
		specificationsOrEmpty(p.Specifications), p.ImageURL, p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("insert product: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID returns the product, active or not; nil when absent.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update writes every mutable column.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if !validID(p.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, category_id = $5, brand_id = $6,
			sku = $7, stock_quantity = $8, specifications = $9, image_url = $10, is_active = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, nullableID(p.CategoryID), nullableID(p.BrandID),
		p.SKU, p.StockQuantity, specificationsOrEmpty(p.Specifications), p.ImageURL, p.IsActive, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes the product.
func (r *ProductRepo) Deactivate(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `UPDATE products SET is_active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FindForReconcile matches on a non-empty SKU or on (name, brand). SKU matches win, then the oldest row.
// Inactive products match too.
func (r *ProductRepo) FindForReconcile(ctx context.Context, sku, name, brandID string) (*entity.Product, error) {
	var brand any
	if validID(brandID) {
		brand = brandID
	}
	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE ($1 <> '' AND sku = $1) OR (name = $2 AND brand_id = $3)
		ORDER BY ($1 <> '' AND sku = $1) DESC, created_at, id
		LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, sku, name, brand))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product for reconcile: %w", err)
	}
	return p, nil
}

// CountByCategory products (active or not) referencing the category.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	if !validID(categoryID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by category: %w", err)
	}
	return n, nil
}

// CountByBrand products (active or not) referencing the brand.
func (r *ProductRepo) CountByBrand(ctx context.Context, brandID string) (int, error) {
	if !validID(brandID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products WHERE brand_id = $1`, brandID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products by brand: %w", err)
	}
	return n, nil
}

// ListActive filtered page of active products, newest first, plus the total matching count.
func (r *ProductRepo) ListActive(ctx context.Context, f repository.ProductFilter) ([]*entity.ProductView, int, error) {
	where := []string{"p.is_active"}
	var args []any
	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Category != "" {
		where = append(where, `c.name ILIKE `+addArg(containsPattern(f.Category))+` ESCAPE '\'`)
	}
	if f.Brand != "" {
		where = append(where, `b.name ILIKE `+addArg(containsPattern(f.Brand))+` ESCAPE '\'`)
	}
	if f.Search != "" {
		ph := addArg(containsPattern(f.Search))
		where = append(where, `(p.name ILIKE `+ph+` ESCAPE '\' OR p.description ILIKE `+ph+` ESCAPE '\'
			OR c.name ILIKE `+ph+` ESCAPE '\' OR b.name ILIKE `+ph+` ESCAPE '\')`)
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*)`+productViewFrom+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productViewColumns + productViewFrom + whereSQL +
		` ORDER BY p.created_at DESC, p.id LIMIT ` + addArg(f.Limit) + ` OFFSET ` + addArg(f.Offset)
	list, err := r.queryViews(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// GetActiveView an active product with its category and brand; nil when absent or inactive.
func (r *ProductRepo) GetActiveView(ctx context.Context, id string) (*entity.ProductView, error) {
	if !validID(id) {
		return nil, nil
	}
	v, err := scanProductView(r.q.QueryRow(ctx,
		`SELECT `+productViewColumns+productViewFrom+` WHERE p.id = $1 AND p.is_active`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product view: %w", err)
	}
	return v, nil
}

// Search ranks active products: exact name, name prefix, name substring, other fields; newest first within a rank.
func (r *ProductRepo) Search(ctx context.Context, q string, limit int) ([]*entity.ProductView, error) {
	query := `SELECT ` + productViewColumns + productViewFrom + `
		WHERE p.is_active AND (p.name ILIKE $2 ESCAPE '\' OR p.description ILIKE $2 ESCAPE '\'
			OR c.name ILIKE $2 ESCAPE '\' OR b.name ILIKE $2 ESCAPE '\')
		ORDER BY CASE
			WHEN lower(p.name) = lower($1) THEN 0
			WHEN p.name ILIKE $3 ESCAPE '\' THEN 1
			WHEN p.name ILIKE $2 ESCAPE '\' THEN 2
			ELSE 3 END,
			p.created_at DESC, p.id
		LIMIT $4`
	list, err := r.queryViews(ctx, query, q, containsPattern(q), prefixPattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return list, nil
}

// ListForPriceList every active product, grouped by category name then product name.
func (r *ProductRepo) ListForPriceList(ctx context.Context) ([]*entity.ProductView, error) {
	query := `SELECT ` + productViewColumns + productViewFrom + `
		WHERE p.is_active
		ORDER BY c.name NULLS LAST, p.name, p.id`
	list, err := r.queryViews(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list price list products: %w", err)
	}
	return list, nil
}

func (r *ProductRepo) queryViews(ctx context.Context, query string, args ...any) ([]*entity.ProductView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*entity.ProductView, 0)
	for rows.Next() {
		v, err := scanProductView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
