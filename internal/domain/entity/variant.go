package entity

import "time"

// Variant variante vendible de un producto (SKU). Es dueña exclusiva de sus
// StockAllocations (una por bodega) y de su historial de precios; las
// referencias entre agregados son por ID, nunca por puntero de ownership.
type Variant struct {
	ID        string
	ProductID string
	SKU       string
	Name      string

	// Atributos usados por las reglas de promoción (field -> valor).
	// Ej: "brand", "category", "unit_price", "launch_date".
	Attributes map[string]string

	// RestrictedCategory marca variantes de categorías reguladas (alcohol,
	// tabaco, etc.); exige promociones con disclosure CPA.
	RestrictedCategory bool

	Allocations []StockAllocation
	Prices      []Price

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TotalStock stock total sumando todas las bodegas.
func (v *Variant) TotalStock() int {
	total := 0
	for i := range v.Allocations {
		total += v.Allocations[i].Quantity
	}
	return total
}

// AvailableStock stock disponible (cantidad - reservado) sumando bodegas.
func (v *Variant) AvailableStock() int {
	total := 0
	for i := range v.Allocations {
		total += v.Allocations[i].AvailableQuantity()
	}
	return total
}

// CurrentPrice devuelve el precio con Current=true, o nil si no hay.
func (v *Variant) CurrentPrice() *Price {
	for i := range v.Prices {
		if v.Prices[i].Current {
			return &v.Prices[i]
		}
	}
	return nil
}

// Attribute busca un atributo por nombre; ok=false si no existe.
func (v *Variant) Attribute(field string) (string, bool) {
	val, ok := v.Attributes[field]
	return val, ok
}
