package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

// VariantRepo persistencia de variantes. Los atributos (usados por las reglas
// de promoción) se guardan como JSONB.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	query := `
		INSERT INTO variants (id, product_id, sku, name, attributes, restricted_category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ProductID, v.SKU, v.Name, v.Attributes, v.RestrictedCategory, v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: variante con SKU %s", domain.ErrDuplicate, v.SKU)
		}
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// GetByID carga la variante con sus asignaciones de stock.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	query := `
		SELECT id, product_id, sku, name, attributes, restricted_category, created_at, updated_at
		FROM variants WHERE id = $1`
	var v entity.Variant
	err := r.q.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Attributes, &v.RestrictedCategory,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}

	allocs, err := r.loadAllocations(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Allocations = allocs
	return &v, nil
}

func (r *VariantRepo) loadAllocations(ctx context.Context, variantID string) ([]entity.StockAllocation, error) {
	query := `
		SELECT id, warehouse_id, variant_id, quantity, reserved_quantity, version, created_at, updated_at
		FROM stock_allocations WHERE variant_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("load allocations: %w", err)
	}
	defer rows.Close()

	var out []entity.StockAllocation
	for rows.Next() {
		var a entity.StockAllocation
		if err := rows.Scan(&a.ID, &a.WarehouseID, &a.VariantID, &a.Quantity, &a.ReservedQuantity,
			&a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByProduct variantes de un producto (sin asignaciones).
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error) {
	query := `
		SELECT id, product_id, sku, name, attributes, restricted_category, created_at, updated_at
		FROM variants WHERE product_id = $1 ORDER BY sku`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()

	var out []*entity.Variant
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Name, &v.Attributes,
			&v.RestrictedCategory, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

// Update actualiza nombre, atributos y flag de categoría restringida.
func (r *VariantRepo) Update(ctx context.Context, v *entity.Variant) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE variants SET name = $2, attributes = $3, restricted_category = $4, updated_at = now()
		WHERE id = $1`,
		v.ID, v.Name, v.Attributes, v.RestrictedCategory,
	)
	if err != nil {
		return fmt.Errorf("update variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, v.ID)
	}
	return nil
}
