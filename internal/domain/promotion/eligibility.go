package promotion

import (
	"time"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// IsEligible decide si una promoción aplica a una variante en el instante now:
//
//  1. now debe caer en la ventana [StartDate, EndDate) (EndDate nil = abierta).
//  2. Todas las reglas de la promoción deben estar satisfechas.
//  3. Si la variante pertenece a una categoría restringida, la promoción debe
//     además cumplir las restricciones regulatorias (display CPA + leyenda IVA).
//
// Devuelve false para fallas de negocio, nunca error; el único error posible
// es una regla malformada (coerción), que el caller registra y trata como
// promoción no evaluable.
func IsEligible(p *entity.Promotion, v *entity.Variant, now time.Time, opts EvalOptions) (bool, error) {
	if !p.IsActiveAt(now) {
		return false, nil
	}

	if opts.Now.IsZero() {
		opts.Now = now
	}
	ok, err := NewEvaluator(p.Rules).EvaluateAll(v, opts)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if v.RestrictedCategory && !p.IsCompliantWithRestrictions() {
		return false, nil
	}
	return true, nil
}
