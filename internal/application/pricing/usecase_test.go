package pricing_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/application/pricing"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeVariantRepo struct {
	variants map[string]*entity.Variant
}

func (f *fakeVariantRepo) Create(_ context.Context, v *entity.Variant) error {
	f.variants[v.ID] = v
	return nil
}

func (f *fakeVariantRepo) GetByID(_ context.Context, id string) (*entity.Variant, error) {
	v, ok := f.variants[id]
	if !ok {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
	}
	return v, nil
}

func (f *fakeVariantRepo) ListByProduct(_ context.Context, _ string) ([]*entity.Variant, error) {
	return nil, nil
}

func (f *fakeVariantRepo) Update(_ context.Context, v *entity.Variant) error {
	f.variants[v.ID] = v
	return nil
}

type fakePromotionRepo struct {
	promos map[string]*entity.Promotion
}

func (f *fakePromotionRepo) Create(_ context.Context, p *entity.Promotion) error {
	f.promos[p.ID] = p
	return nil
}

func (f *fakePromotionRepo) GetByID(_ context.Context, id string) (*entity.Promotion, error) {
	p, ok := f.promos[id]
	if !ok {
		return nil, fmt.Errorf("%w: promoción %s", domain.ErrNotFound, id)
	}
	return p, nil
}

func (f *fakePromotionRepo) List(_ context.Context, _, _ int) ([]*entity.Promotion, error) {
	return nil, nil
}

func (f *fakePromotionRepo) Update(_ context.Context, p *entity.Promotion) error {
	f.promos[p.ID] = p
	return nil
}

func (f *fakePromotionRepo) Delete(_ context.Context, id string) error {
	delete(f.promos, id)
	return nil
}

type fakePriceRepo struct {
	current map[string]*entity.Price // por variante
	history map[string][]*entity.Price
	changes []*entity.PriceChange
}

func (f *fakePriceRepo) Create(_ context.Context, p *entity.Price) error {
	f.history[p.VariantID] = append(f.history[p.VariantID], p)
	if p.Current {
		f.current[p.VariantID] = p
	}
	return nil
}

func (f *fakePriceRepo) GetCurrent(_ context.Context, variantID string) (*entity.Price, error) {
	p, ok := f.current[variantID]
	if !ok {
		return nil, fmt.Errorf("%w: precio vigente de %s", domain.ErrNotFound, variantID)
	}
	return p, nil
}

func (f *fakePriceRepo) ListByVariant(_ context.Context, variantID string) ([]*entity.Price, error) {
	return f.history[variantID], nil
}

func (f *fakePriceRepo) SwapCurrent(_ context.Context, variantID, oldPriceID string, newPrice *entity.Price, change *entity.PriceChange) error {
	old, ok := f.current[variantID]
	if !ok || old.ID != oldPriceID {
		return fmt.Errorf("%w: el precio %s ya no es el vigente", domain.ErrConflict, oldPriceID)
	}
	now := change.ChangedAt
	old.Current = false
	old.EffectiveTo = &now
	f.current[variantID] = newPrice
	f.history[variantID] = append(f.history[variantID], newPrice)
	f.changes = append(f.changes, change)
	return nil
}

func (f *fakePriceRepo) ListChangesByPromotion(_ context.Context, promotionID string) ([]*entity.PriceChange, error) {
	var out []*entity.PriceChange
	for _, c := range f.changes {
		if c.PromotionID == promotionID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var now = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc     *pricing.UseCase
	prices *fakePriceRepo
	promos *fakePromotionRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	variants := &fakeVariantRepo{variants: map[string]*entity.Variant{
		"var-1": {ID: "var-1", SKU: "SKU-1", Attributes: map[string]string{"brand": "Acme"}},
		"var-r": {ID: "var-r", SKU: "SKU-R", RestrictedCategory: true},
	}}
	prices := &fakePriceRepo{
		current: make(map[string]*entity.Price),
		history: make(map[string][]*entity.Price),
	}
	standard := &entity.TaxClass{TaxType: entity.TaxTypeStandard, Rate: decimal.NewFromInt(15)}
	require.NoError(t, prices.Create(context.Background(), &entity.Price{
		ID: "price-1", VariantID: "var-1", BasePrice: decimal.NewFromInt(100),
		Current: true, TaxClass: standard, PriceType: entity.PriceTypeRegular,
	}))
	require.NoError(t, prices.Create(context.Background(), &entity.Price{
		ID: "price-r", VariantID: "var-r", BasePrice: decimal.NewFromInt(200),
		Current: true, TaxClass: standard, PriceType: entity.PriceTypeRegular,
	}))

	promos := &fakePromotionRepo{promos: make(map[string]*entity.Promotion)}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	return &fixture{
		uc:     pricing.NewUseCase(variants, promos, prices, log),
		prices: prices,
		promos: promos,
	}
}

func percentagePromo(id string, discount int64) *entity.Promotion {
	return &entity.Promotion{
		ID:            id,
		Type:          entity.PromotionTypePercentage,
		DiscountValue: decimal.NewFromInt(discount),
		StartDate:     now.Add(-time.Hour),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// PriceVariant
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceVariant_SinCandidatas_DevuelveBase(t *testing.T) {
	fx := newFixture(t)

	quote, err := fx.uc.PriceVariant(context.Background(), "var-1", nil, now)
	require.NoError(t, err)
	assert.Equal(t, "100", quote.BasePrice.String())
	assert.Equal(t, "115.00", quote.DisplayPrice.StringFixed(2), "display = base + 15% IVA")
	assert.Empty(t, quote.AppliedPromotionID)
}

func TestPriceVariant_GanaElMenorPrecioEfectivo(t *testing.T) {
	fx := newFixture(t)
	fx.promos.promos["p10"] = percentagePromo("p10", 10)
	fx.promos.promos["p30"] = percentagePromo("p30", 30)

	quote, err := fx.uc.PriceVariant(context.Background(), "var-1", []string{"p10", "p30"}, now)
	require.NoError(t, err)
	assert.Equal(t, "p30", quote.AppliedPromotionID, "entre elegibles gana el mayor descuento")
	assert.Equal(t, "70", quote.BasePrice.String())
	assert.Equal(t, "80.50", quote.DisplayPrice.StringFixed(2))
}

func TestPriceVariant_PromocionVencidaNoAplica(t *testing.T) {
	fx := newFixture(t)
	expired := percentagePromo("p-old", 50)
	end := now.Add(-time.Minute)
	expired.StartDate = now.Add(-48 * time.Hour)
	expired.EndDate = &end
	fx.promos.promos["p-old"] = expired

	quote, err := fx.uc.PriceVariant(context.Background(), "var-1", []string{"p-old"}, now)
	require.NoError(t, err)
	assert.Empty(t, quote.AppliedPromotionID)
	assert.Equal(t, "100", quote.BasePrice.String())
}

func TestPriceVariant_ReglaMalformadaExcluyeLaPromocion(t *testing.T) {
	fx := newFixture(t)
	bad := percentagePromo("p-bad", 50)
	bad.Rules = []entity.Rule{{
		ID: "r1", Field: "brand", Operator: entity.OperatorGreaterThan,
		Value: "x", ValueType: entity.ValueTypeNumber, Active: true,
	}}
	fx.promos.promos["p-bad"] = bad
	fx.promos.promos["p10"] = percentagePromo("p10", 10)

	quote, err := fx.uc.PriceVariant(context.Background(), "var-1", []string{"p-bad", "p10"}, now)
	require.NoError(t, err, "una promoción no evaluable nunca tumba la cotización")
	assert.Equal(t, "p10", quote.AppliedPromotionID)
}

func TestPriceVariant_CandidataInexistenteSeIgnora(t *testing.T) {
	fx := newFixture(t)

	quote, err := fx.uc.PriceVariant(context.Background(), "var-1", []string{"fantasma"}, now)
	require.NoError(t, err)
	assert.Empty(t, quote.AppliedPromotionID)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyPromotion: supersesión atómica + auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyPromotion_SupersedeYRegistraCambio(t *testing.T) {
	fx := newFixture(t)
	fx.promos.promos["p20"] = percentagePromo("p20", 20)

	newPrice, err := fx.uc.ApplyPromotion(context.Background(), "p20", "var-1", now)
	require.NoError(t, err)

	assert.Equal(t, "80", newPrice.BasePrice.String())
	assert.Equal(t, entity.PriceTypePromotional, newPrice.PriceType)
	assert.Equal(t, "PROMOTION-p20", newPrice.PriceSource)
	assert.True(t, newPrice.Current)

	// El precio viejo quedó cerrado y el vigente es el nuevo.
	current, err := fx.prices.GetCurrent(context.Background(), "var-1")
	require.NoError(t, err)
	assert.Equal(t, newPrice.ID, current.ID)

	// Auditoría: un PriceChange enlaza promoción, precio viejo y nuevo.
	changes, err := fx.uc.PriceChanges(context.Background(), "p20")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "price-1", changes[0].OldPriceID)
	assert.Equal(t, newPrice.ID, changes[0].NewPriceID)
}

func TestApplyPromotion_NoElegible_RetornaInvalidInput(t *testing.T) {
	fx := newFixture(t)
	p := percentagePromo("p20", 20)
	p.StartDate = now.Add(time.Hour) // aún no arranca
	fx.promos.promos["p20"] = p

	_, err := fx.uc.ApplyPromotion(context.Background(), "p20", "var-1", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyPromotion_CategoriaRestringidaSinCPA_RetornaCompliance(t *testing.T) {
	fx := newFixture(t)
	fx.promos.promos["p20"] = percentagePromo("p20", 20)

	_, err := fx.uc.ApplyPromotion(context.Background(), "p20", "var-r", now)
	assert.ErrorIs(t, err, domain.ErrComplianceViolation,
		"promoción sin disclosure CPA sobre categoría restringida debe fallar con compliance")
}

func TestApplyPromotion_CategoriaRestringidaConCPA_Funciona(t *testing.T) {
	fx := newFixture(t)
	p := percentagePromo("p20", 20)
	p.CPACompliantDisplay = true
	p.Description = "Oferta especial. " + entity.VATDisclosure
	fx.promos.promos["p20"] = p

	newPrice, err := fx.uc.ApplyPromotion(context.Background(), "p20", "var-r", now)
	require.NoError(t, err)
	assert.Equal(t, "160", newPrice.BasePrice.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial
// ──────────────────────────────────────────────────────────────────────────────

func TestPriceHistory_IncluyeSupersedidos(t *testing.T) {
	fx := newFixture(t)
	fx.promos.promos["p20"] = percentagePromo("p20", 20)

	_, err := fx.uc.ApplyPromotion(context.Background(), "p20", "var-1", now)
	require.NoError(t, err)

	history, err := fx.uc.PriceHistory(context.Background(), "var-1")
	require.NoError(t, err)
	assert.Len(t, history, 2, "el historial conserva el precio supersedido")
}
