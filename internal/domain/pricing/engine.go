// Package pricing cálculo puro de precios efectivos bajo promoción.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// EffectivePrice precio base efectivo (excluyendo IVA) de una variante bajo
// una promoción, según su tipo:
//
//   - PERCENTAGE: base × (1 − descuento/100), con la división a 4 decimales
//     half-up antes de multiplicar.
//   - FIXED: max(base − descuento, 0).
//   - FREE_SAMPLE: 0.
//   - BOGO/MULTIBUY: precio unitario mezclado base × required / (required+free)
//     a 2 decimales half-up. Es el precio por unidad promediando unidades
//     pagadas y gratis, no un total por línea.
//   - tipo desconocido: base sin cambios.
func EffectivePrice(p *entity.Promotion, basePrice decimal.Decimal) decimal.Decimal {
	switch p.Type {
	case entity.PromotionTypePercentage:
		factor := decimal.NewFromInt(1).Sub(p.DiscountValue.DivRound(hundred, 4))
		return basePrice.Mul(factor)
	case entity.PromotionTypeFixed:
		discounted := basePrice.Sub(p.DiscountValue)
		if discounted.IsNegative() {
			return decimal.Zero
		}
		return discounted
	case entity.PromotionTypeFreeSample:
		return decimal.Zero
	case entity.PromotionTypeBOGO, entity.PromotionTypeMultibuy:
		required := decimal.NewFromInt(int64(p.RequiredQuantity))
		total := decimal.NewFromInt(int64(p.RequiredQuantity + p.FreeQuantity))
		return basePrice.Mul(required).DivRound(total, 2)
	default:
		return basePrice
	}
}

// DisplayPrice precio a mostrar: base + IVA según la clase tributaria,
// escalado a 2 decimales half-up.
func DisplayPrice(basePrice decimal.Decimal, taxClass *entity.TaxClass) decimal.Decimal {
	return basePrice.Add(taxClass.CalculateTax(basePrice)).Round(2)
}
