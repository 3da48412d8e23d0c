package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// StockAllocationRepository puerto de persistencia para asignaciones de stock.
// No hay bloqueo de filas: la concurrencia se resuelve por versión optimista
// en ConditionalWrite (compare-and-swap contra Version).
type StockAllocationRepository interface {
	Get(ctx context.Context, warehouseID, variantID string) (*entity.StockAllocation, error)
	// ConditionalWrite aplica (newQuantity, newReserved) solo si la versión
	// almacenada sigue siendo expectedVersion; incrementa Version en 1 y
	// devuelve la nueva versión. Si la versión cambió devuelve
	// domain.ErrVersionConflict sin mutar nada.
	ConditionalWrite(ctx context.Context, allocationID string, expectedVersion int64, newQuantity, newReserved int) (int64, error)
	Create(ctx context.Context, allocation *entity.StockAllocation) error
	ListByVariant(ctx context.Context, variantID string) ([]*entity.StockAllocation, error)
}
