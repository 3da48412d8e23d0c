package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceType tipo de precio dentro del historial de una variante.
type PriceType string

const (
	PriceTypeRegular     PriceType = "REGULAR"
	PriceTypePromotional PriceType = "PROMOTIONAL"
	PriceTypeSeasonal    PriceType = "SEASONAL"
)

// Price precio de una variante en un rango de vigencia.
// BasePrice excluye IVA; a lo sumo un Price por variante tiene Current=true
// en un instante dado (la supersesión es atómica en el repositorio).
type Price struct {
	ID            string
	VariantID     string
	BasePrice     decimal.Decimal // excluye IVA
	Current       bool
	TaxClass      *TaxClass
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	PriceType     PriceType
	PriceSource   string // ej. "PROMOTION-{id}", "SEASONAL-WINTER"
	CreatedAt     time.Time
	UpdatedBy     string
}

// IsActiveAt indica si el precio está vigente en el instante dado.
func (p *Price) IsActiveAt(now time.Time) bool {
	return p.Current && (p.EffectiveTo == nil || p.EffectiveTo.After(now))
}

// DisplayPrice precio a mostrar al cliente: base + IVA, 2 decimales half-up.
func (p *Price) DisplayPrice() decimal.Decimal {
	if p.TaxClass == nil {
		return p.BasePrice.Round(2)
	}
	return p.BasePrice.Add(p.TaxClass.CalculateTax(p.BasePrice)).Round(2)
}
