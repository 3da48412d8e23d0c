// Package stock implementa el libro de reservas de stock: operaciones
// reserve/release/adjust sobre una asignación bodega+variante bajo
// concurrencia optimista, y la coordinación de reservas multi-línea.
package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// Ledger opera sobre una asignación de stock individual. Cada mutación es un
// conditional write: el caller entrega la asignación tal como la leyó
// (incluida su Version) y la escritura solo aplica si la versión almacenada
// no cambió. No se sostienen locks entre la lectura y la escritura.
type Ledger struct {
	allocations repository.StockAllocationRepository
	log         *logger.Logger
}

// NewLedger construye el ledger.
func NewLedger(allocations repository.StockAllocationRepository, log *logger.Logger) *Ledger {
	return &Ledger{allocations: allocations, log: log}
}

// CreateAllocation registra una asignación bodega+variante con cantidad
// inicial y reserva cero. La versión arranca en 1.
func (l *Ledger) CreateAllocation(ctx context.Context, warehouseID, variantID string, quantity int) (*entity.StockAllocation, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: cantidad inicial negativa", domain.ErrInvalidInput)
	}
	now := time.Now()
	alloc := &entity.StockAllocation{
		ID:          uuid.New().String(),
		WarehouseID: warehouseID,
		VariantID:   variantID,
		Quantity:    quantity,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := l.allocations.Create(ctx, alloc); err != nil {
		return nil, fmt.Errorf("crear asignación %s/%s: %w", warehouseID, variantID, err)
	}
	return alloc, nil
}

// Get lee la asignación actual de una variante en una bodega.
func (l *Ledger) Get(ctx context.Context, warehouseID, variantID string) (*entity.StockAllocation, error) {
	alloc, err := l.allocations.Get(ctx, warehouseID, variantID)
	if err != nil {
		return nil, fmt.Errorf("leer asignación %s/%s: %w", warehouseID, variantID, err)
	}
	return alloc, nil
}

// Reserve compromete amount unidades contra la asignación leída por el caller.
// Falla con ErrInvalidInput (amount <= 0), ErrInsufficientStock (sin mutar
// estado) o ErrVersionConflict (otro caller escribió primero). En éxito
// actualiza alloc en sitio y devuelve la nueva versión.
func (l *Ledger) Reserve(ctx context.Context, alloc *entity.StockAllocation, amount int) (int64, error) {
	next := *alloc
	if err := next.Reserve(amount); err != nil {
		return 0, err
	}
	return l.write(ctx, alloc, &next)
}

// Release libera amount unidades previamente reservadas.
// Es la inversa de Reserve: tras release(a) la reserva vuelve a su valor previo.
func (l *Ledger) Release(ctx context.Context, alloc *entity.StockAllocation, amount int) (int64, error) {
	next := *alloc
	if err := next.Release(amount); err != nil {
		return 0, err
	}
	return l.write(ctx, alloc, &next)
}

// AdjustQuantity fija la cantidad total de la asignación. Nunca puede quedar
// por debajo de lo ya reservado.
func (l *Ledger) AdjustQuantity(ctx context.Context, alloc *entity.StockAllocation, newQuantity int) (int64, error) {
	next := *alloc
	if err := next.AdjustQuantity(newQuantity); err != nil {
		return 0, err
	}
	return l.write(ctx, alloc, &next)
}

// write CAS contra la versión con la que el caller leyó. En éxito refresca
// alloc con el nuevo estado para que el caller conserve una vista vigente.
func (l *Ledger) write(ctx context.Context, alloc, next *entity.StockAllocation) (int64, error) {
	newVersion, err := l.allocations.ConditionalWrite(ctx, alloc.ID, alloc.Version, next.Quantity, next.ReservedQuantity)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			l.log.Debug().
				Str("allocation_id", alloc.ID).
				Int64("expected_version", alloc.Version).
				Msg("conflicto de versión en escritura de stock")
		}
		return 0, err
	}
	alloc.Quantity = next.Quantity
	alloc.ReservedQuantity = next.ReservedQuantity
	alloc.Version = newVersion
	return newVersion, nil
}
