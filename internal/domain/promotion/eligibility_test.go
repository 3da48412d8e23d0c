package promotion_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/promotion"
)

func activePromo(rules ...entity.Rule) *entity.Promotion {
	end := testNow.Add(30 * 24 * time.Hour)
	return &entity.Promotion{
		ID:        "promo-1",
		Type:      entity.PromotionTypePercentage,
		StartDate: testNow.Add(-24 * time.Hour),
		EndDate:   &end,
		Rules:     rules,
	}
}

func TestIsEligible_VentanaYReglasSatisfechas(t *testing.T) {
	p := activePromo(leaf("r1", "brand", entity.OperatorEquals, "Acme", entity.ValueTypeString))
	v := variantWith(map[string]string{"brand": "Acme"})

	ok, err := promotion.IsEligible(p, v, testNow, opts())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsEligible_FueraDeVentana(t *testing.T) {
	p := activePromo()
	v := variantWith(nil)

	ok, err := promotion.IsEligible(p, v, p.StartDate.Add(-time.Hour), opts())
	require.NoError(t, err)
	assert.False(t, ok, "antes de la ventana la promoción no es elegible")

	ok, err = promotion.IsEligible(p, v, *p.EndDate, opts())
	require.NoError(t, err)
	assert.False(t, ok, "el fin de ventana es exclusivo")
}

func TestIsEligible_ReglaNoSatisfecha(t *testing.T) {
	p := activePromo(leaf("r1", "brand", entity.OperatorEquals, "Acme", entity.ValueTypeString))
	v := variantWith(map[string]string{"brand": "Otro"})

	ok, err := promotion.IsEligible(p, v, testNow, opts())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsEligible_ReglaMalformada_PropagaError(t *testing.T) {
	p := activePromo(leaf("r1", "weight", entity.OperatorGreaterThan, "diez", entity.ValueTypeNumber))
	v := variantWith(map[string]string{"weight": "5"})

	_, err := promotion.IsEligible(p, v, testNow, opts())
	assert.ErrorIs(t, err, domain.ErrRuleEvaluation,
		"una regla malformada es error del caller, no un false de negocio")
}

// Categoría restringida: además de las reglas, la promoción debe traer el
// display CPA y la leyenda de IVA en la descripción.
func TestIsEligible_CategoriaRestringida(t *testing.T) {
	p := activePromo()
	v := variantWith(nil)
	v.RestrictedCategory = true

	ok, err := promotion.IsEligible(p, v, testNow, opts())
	require.NoError(t, err)
	assert.False(t, ok, "sin cumplimiento regulatorio la variante restringida no es elegible")

	p.CPACompliantDisplay = true
	p.Description = "Oferta. " + entity.VATDisclosure
	ok, err = promotion.IsEligible(p, v, testNow, opts())
	require.NoError(t, err)
	assert.True(t, ok)
}
