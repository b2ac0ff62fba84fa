package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cozyren/catalog-api/internal/domain"
	"github.com/cozyren/catalog-api/internal/domain/entity"
	"github.com/cozyren/catalog-api/internal/domain/repository"
)

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo BrandRepository over PostgreSQL (pool or tx).
type BrandRepo struct {
	q Querier
}

// NewBrandRepository builds the adapter. Pass the pool or a tx.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

const brandColumns = `id, name, description, logo_url, created_at, updated_at`

func scanBrand(row scanner) (*entity.Brand, error) {
	var b entity.Brand
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	query := `
		INSERT INTO brands (id, name, description, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query, b.ID, b.Name, b.Description, b.LogoURL, b.CreatedAt, b.UpdatedAt).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	if !validID(id) {
		return nil, nil
	}
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx,
		`SELECT `+brandColumns+` FROM brands WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand by name: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) SearchByName(ctx context.Context, fragment string) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+brandColumns+` FROM brands
		WHERE name ILIKE $1 ESCAPE '\'
		ORDER BY created_at, id`, containsPattern(fragment))
	if err != nil {
		return nil, fmt.Errorf("search brands: %w", err)
	}
	defer rows.Close()

	var list []*entity.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	if !validID(b.ID) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE brands SET name = $2, description = $3, logo_url = $4, updated_at = $5 WHERE id = $1`,
		b.ID, b.Name, b.Description, b.LogoURL, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BrandRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrInUse
		}
		return fmt.Errorf("delete brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BrandRepo) ListWithCounts(ctx context.Context) ([]*entity.BrandWithCount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.id, b.name, b.description, b.logo_url, b.created_at, b.updated_at,
		       COUNT(p.id) FILTER (WHERE p.is_active)
		FROM brands b
		LEFT JOIN products p ON p.brand_id = b.id
		GROUP BY b.id
		ORDER BY b.name`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var list []*entity.BrandWithCount
	for rows.Next() {
		var b entity.BrandWithCount
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.LogoURL, &b.CreatedAt, &b.UpdatedAt, &b.ProductsCount); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
