package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/pms-api/internal/domain"
)

// StockAllocation stock de una variante en una bodega concreta.
// (Quantity, ReservedQuantity, Version) es el único estado mutable compartido
// del sistema: toda mutación pasa por Reserve/Release/AdjustQuantity y se
// persiste con compare-and-swap sobre Version (sin locks entre requests).
type StockAllocation struct {
	ID               string
	WarehouseID      string
	VariantID        string
	Quantity         int
	ReservedQuantity int
	Version          int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity cantidad disponible para reservar. Invariante:
// 0 <= ReservedQuantity <= Quantity, por lo que nunca es negativa.
func (a *StockAllocation) AvailableQuantity() int {
	return a.Quantity - a.ReservedQuantity
}

// Reserve compromete amount unidades contra el stock disponible.
func (a *StockAllocation) Reserve(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: la cantidad a reservar debe ser positiva", domain.ErrInvalidInput)
	}
	if amount > a.AvailableQuantity() {
		return domain.ErrInsufficientStock
	}
	a.ReservedQuantity += amount
	return nil
}

// Release libera amount unidades previamente reservadas.
func (a *StockAllocation) Release(amount int) error {
	if amount <= 0 {
		return fmt.Errorf("%w: la cantidad a liberar debe ser positiva", domain.ErrInvalidInput)
	}
	if amount > a.ReservedQuantity {
		return fmt.Errorf("%w: no se puede liberar más de lo reservado", domain.ErrInvalidInput)
	}
	a.ReservedQuantity -= amount
	return nil
}

// AdjustQuantity fija la cantidad total. No puede bajar por debajo de las
// reservas ya comprometidas.
func (a *StockAllocation) AdjustQuantity(newQuantity int) error {
	if newQuantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if newQuantity < a.ReservedQuantity {
		return fmt.Errorf("%w: la nueva cantidad no puede ser menor que lo reservado", domain.ErrInvalidInput)
	}
	a.Quantity = newQuantity
	return nil
}
