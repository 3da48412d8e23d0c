package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/pricing"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// EffectivePrice por tipo de promoción (base 100, excluye IVA)
// ──────────────────────────────────────────────────────────────────────────────

func TestEffectivePrice_Percentage20(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypePercentage, DiscountValue: dec("20")}
	// 100 × (1 − 0.2000) = 80
	assert.True(t, pricing.EffectivePrice(p, dec("100")).Equal(dec("80")))
}

func TestEffectivePrice_PercentageConRedondeoDeFactor(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypePercentage, DiscountValue: dec("33.335")}
	// 33.335/100 = 0.33335 → half-up a 4 decimales = 0.3334 → factor 0.6666
	got := pricing.EffectivePrice(p, dec("100"))
	assert.True(t, got.Equal(dec("66.66")), "la división del descuento redondea a 4 decimales antes de multiplicar, got %s", got)
}

func TestEffectivePrice_Fixed30(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypeFixed, DiscountValue: dec("30")}
	assert.True(t, pricing.EffectivePrice(p, dec("100")).Equal(dec("70")))
}

func TestEffectivePrice_FixedNuncaNegativo(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypeFixed, DiscountValue: dec("150")}
	assert.True(t, pricing.EffectivePrice(p, dec("100")).IsZero(),
		"descuento fijo mayor que el precio produce 0, nunca negativo")
}

func TestEffectivePrice_FreeSample(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypeFreeSample}
	assert.True(t, pricing.EffectivePrice(p, dec("100")).IsZero())
}

func TestEffectivePrice_BOGO_PrecioUnitarioMezclado(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypeBOGO, RequiredQuantity: 1, FreeQuantity: 1}
	// 50 × 1 / 2 = 25.00
	assert.Equal(t, "25.00", pricing.EffectivePrice(p, dec("50")).StringFixed(2))
}

func TestEffectivePrice_Multibuy3x2(t *testing.T) {
	p := &entity.Promotion{Type: entity.PromotionTypeMultibuy, RequiredQuantity: 2, FreeQuantity: 1}
	// 100 × 2 / 3 = 66.666... → half-up a 2 decimales = 66.67
	assert.Equal(t, "66.67", pricing.EffectivePrice(p, dec("100")).StringFixed(2))
}

func TestEffectivePrice_TipoDesconocidoDevuelveBase(t *testing.T) {
	p := &entity.Promotion{Type: "MYSTERY"}
	assert.True(t, pricing.EffectivePrice(p, dec("100")).Equal(dec("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// DisplayPrice: base + IVA a 2 decimales half-up
// ──────────────────────────────────────────────────────────────────────────────

func TestDisplayPrice_Standard15(t *testing.T) {
	tc := &entity.TaxClass{TaxType: entity.TaxTypeStandard, Rate: dec("15")}
	assert.Equal(t, "115.00", pricing.DisplayPrice(dec("100"), tc).StringFixed(2))
}

func TestDisplayPrice_RedondeoHalfUp(t *testing.T) {
	tc := &entity.TaxClass{TaxType: entity.TaxTypeStandard, Rate: dec("15")}
	// 33.33 × 1.15 = 38.3295 → 38.33
	assert.Equal(t, "38.33", pricing.DisplayPrice(dec("33.33"), tc).StringFixed(2))
}

func TestDisplayPrice_SinTaxClass(t *testing.T) {
	assert.Equal(t, "99.99", pricing.DisplayPrice(dec("99.99"), nil).StringFixed(2))
}
