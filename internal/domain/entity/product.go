package entity

import "time"

// Product producto del catálogo. Dueño de sus variantes (referenciadas por ID
// desde Variant.ProductID); el stock y los precios viven en las variantes.
type Product struct {
	ID          string
	VendorID    string
	CategoryID  string
	Name        string
	Description string
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TotalStock stock total del producto sumando todas sus variantes.
func (p *Product) TotalStock() int {
	total := 0
	for i := range p.Variants {
		total += p.Variants[i].TotalStock()
	}
	return total
}
