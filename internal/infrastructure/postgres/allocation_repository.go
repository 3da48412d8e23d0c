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

var _ repository.StockAllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo persistencia de asignaciones de stock sobre PostgreSQL.
// La concurrencia se resuelve con compare-and-swap sobre la columna version;
// nunca se usa SELECT FOR UPDATE ni locks entre requests.
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

// Get lee la asignación de una variante en una bodega.
func (r *AllocationRepo) Get(ctx context.Context, warehouseID, variantID string) (*entity.StockAllocation, error) {
	query := `
		SELECT id, warehouse_id, variant_id, quantity, reserved_quantity, version, created_at, updated_at
		FROM stock_allocations WHERE warehouse_id = $1 AND variant_id = $2`
	var a entity.StockAllocation
	err := r.q.QueryRow(ctx, query, warehouseID, variantID).Scan(
		&a.ID, &a.WarehouseID, &a.VariantID, &a.Quantity, &a.ReservedQuantity,
		&a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: asignación %s/%s", domain.ErrNotFound, warehouseID, variantID)
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return &a, nil
}

// ConditionalWrite escritura condicional: aplica el nuevo estado solo si la
// versión almacenada sigue siendo expectedVersion. El UPDATE con el predicado
// de versión es el compare-and-swap; si no afecta filas y la asignación
// existe, otro caller ganó la carrera.
func (r *AllocationRepo) ConditionalWrite(ctx context.Context, allocationID string, expectedVersion int64, newQuantity, newReserved int) (int64, error) {
	query := `
		UPDATE stock_allocations
		SET quantity = $3, reserved_quantity = $4, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING version`
	var newVersion int64
	err := r.q.QueryRow(ctx, query, allocationID, expectedVersion, newQuantity, newReserved).Scan(&newVersion)
	if err == nil {
		return newVersion, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("conditional write allocation %s: %w", allocationID, err)
	}

	// Sin filas afectadas: distinguir inexistente de versión obsoleta.
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_allocations WHERE id = $1)`, allocationID).Scan(&exists); err != nil {
		return 0, fmt.Errorf("verificar asignación %s: %w", allocationID, err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: asignación %s", domain.ErrNotFound, allocationID)
	}
	return 0, fmt.Errorf("%w: asignación %s esperaba versión %d", domain.ErrVersionConflict, allocationID, expectedVersion)
}

// Create persiste una asignación nueva con versión inicial 1.
func (r *AllocationRepo) Create(ctx context.Context, a *entity.StockAllocation) error {
	if a.Version == 0 {
		a.Version = 1
	}
	query := `
		INSERT INTO stock_allocations (id, warehouse_id, variant_id, quantity, reserved_quantity, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`
	_, err := r.q.Exec(ctx, query, a.ID, a.WarehouseID, a.VariantID, a.Quantity, a.ReservedQuantity, a.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: asignación %s/%s", domain.ErrDuplicate, a.WarehouseID, a.VariantID)
		}
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// ListByVariant asignaciones de una variante en todas las bodegas.
func (r *AllocationRepo) ListByVariant(ctx context.Context, variantID string) ([]*entity.StockAllocation, error) {
	query := `
		SELECT id, warehouse_id, variant_id, quantity, reserved_quantity, version, created_at, updated_at
		FROM stock_allocations WHERE variant_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, variantID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockAllocation
	for rows.Next() {
		var a entity.StockAllocation
		if err := rows.Scan(&a.ID, &a.WarehouseID, &a.VariantID, &a.Quantity, &a.ReservedQuantity,
			&a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
