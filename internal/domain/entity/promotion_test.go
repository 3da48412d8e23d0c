package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate
// ──────────────────────────────────────────────────────────────────────────────

func TestPromotionValidate_BOGORequiereCantidades(t *testing.T) {
	p := entity.Promotion{
		Type:             entity.PromotionTypeBOGO,
		RequiredQuantity: 1,
		FreeQuantity:     1,
		StartDate:        time.Now(),
	}
	require.NoError(t, p.Validate())

	p.FreeQuantity = 0
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput, "BOGO sin free quantity debe fallar")

	p.FreeQuantity = 1
	p.RequiredQuantity = 0
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput, "BOGO sin required quantity debe fallar")
}

func TestPromotionValidate_PercentageRequiereDescuentoPositivo(t *testing.T) {
	p := entity.Promotion{
		Type:          entity.PromotionTypePercentage,
		DiscountValue: dec("20"),
		StartDate:     time.Now(),
	}
	require.NoError(t, p.Validate())

	p.DiscountValue = decimal.Zero
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput)
}

func TestPromotionValidate_EndDateDebeSerPosterior(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	p := entity.Promotion{
		Type:          entity.PromotionTypeFixed,
		DiscountValue: dec("30"),
		StartDate:     start,
		EndDate:       &before,
	}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput)
}

func TestPromotionValidate_TipoDesconocido(t *testing.T) {
	p := entity.Promotion{Type: "MYSTERY", StartDate: time.Now()}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventana de vigencia [StartDate, EndDate)
// ──────────────────────────────────────────────────────────────────────────────

func TestIsActiveAt_VentanaSemiAbierta(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	p := entity.Promotion{StartDate: start, EndDate: &end}

	assert.False(t, p.IsActiveAt(start.Add(-time.Second)), "antes de start no está activa")
	assert.True(t, p.IsActiveAt(start), "start es inclusivo")
	assert.True(t, p.IsActiveAt(end.Add(-time.Second)))
	assert.False(t, p.IsActiveAt(end), "end es exclusivo")
}

func TestIsActiveAt_SinEndDate_QuedaAbierta(t *testing.T) {
	p := entity.Promotion{StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	assert.True(t, p.IsActiveAt(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Descripción CPA y ahorro
// ──────────────────────────────────────────────────────────────────────────────

func TestSavingsPercentage_BOGO(t *testing.T) {
	p := entity.Promotion{Type: entity.PromotionTypeBOGO, RequiredQuantity: 1, FreeQuantity: 1}
	// 1/(1+1) = 0.5 → 50%
	assert.Equal(t, "50.00", p.SavingsPercentage().StringFixed(2))
}

func TestSavingsPercentage_Multibuy3x2(t *testing.T) {
	p := entity.Promotion{Type: entity.PromotionTypeMultibuy, RequiredQuantity: 2, FreeQuantity: 1}
	// 1/3 = 0.3333 half-up a 4 decimales → 33.33%
	assert.Equal(t, "33.33", p.SavingsPercentage().StringFixed(2))
}

func TestCPACompliantDescription_PorTipo(t *testing.T) {
	bogo := entity.Promotion{Type: entity.PromotionTypeBOGO, RequiredQuantity: 1, FreeQuantity: 1}
	assert.Equal(t, "Buy 1, Get 1 FREE (50.00% saving)", bogo.CPACompliantDescription())

	multibuy := entity.Promotion{Type: entity.PromotionTypeMultibuy, RequiredQuantity: 2, FreeQuantity: 1}
	assert.Equal(t, "Get 3 for the price of 2 (33.33% saving)", multibuy.CPACompliantDescription())

	sample := entity.Promotion{Type: entity.PromotionTypeFreeSample}
	assert.Contains(t, sample.CPACompliantDescription(), "FREE sample")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cumplimiento para categorías restringidas
// ──────────────────────────────────────────────────────────────────────────────

func TestIsCompliantWithRestrictions(t *testing.T) {
	p := entity.Promotion{
		Description:         "2 for 1 special. " + entity.VATDisclosure,
		CPACompliantDisplay: true,
	}
	assert.True(t, p.IsCompliantWithRestrictions())

	p.CPACompliantDisplay = false
	assert.False(t, p.IsCompliantWithRestrictions(), "sin display CPA no cumple")

	p.CPACompliantDisplay = true
	p.Description = "2 for 1 special"
	assert.False(t, p.IsCompliantWithRestrictions(), "sin leyenda de IVA no cumple")
}

// ──────────────────────────────────────────────────────────────────────────────
// TaxClass y precio de exhibición
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateTax_Standard15(t *testing.T) {
	tc := entity.TaxClass{TaxType: entity.TaxTypeStandard, Rate: dec("15")}
	// 100 × 0.1500 = 15.0000
	assert.True(t, tc.CalculateTax(dec("100")).Equal(dec("15")),
		"IVA estándar de 100 debe ser 15")
}

func TestCalculateTax_ZeroRatedYExemptSiempreCero(t *testing.T) {
	zero := entity.TaxClass{TaxType: entity.TaxTypeZeroRated, Rate: dec("15")}
	exempt := entity.TaxClass{TaxType: entity.TaxTypeExempt, Rate: dec("15")}

	assert.True(t, zero.CalculateTax(dec("100")).IsZero(), "ZERO_RATED ignora Rate")
	assert.True(t, exempt.CalculateTax(dec("100")).IsZero(), "EXEMPT ignora Rate")
}

func TestCalculateTax_NilTaxClass(t *testing.T) {
	var tc *entity.TaxClass
	assert.True(t, tc.CalculateTax(dec("100")).IsZero(), "sin clase tributaria no hay impuesto")
}

func TestPriceDisplayPrice_IncluyeIVARedondeado(t *testing.T) {
	price := entity.Price{
		BasePrice: dec("100"),
		TaxClass:  &entity.TaxClass{TaxType: entity.TaxTypeStandard, Rate: dec("15")},
	}
	assert.Equal(t, "115.00", price.DisplayPrice().StringFixed(2))
}
