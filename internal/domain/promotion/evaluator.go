// Package promotion implementa la evaluación de reglas y elegibilidad de
// promociones (servicios de dominio, sin dependencias de infraestructura).
package promotion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// EvalOptions opciones por llamada de evaluación.
// RequireCompliance controla qué pasa con reglas inactivas o con aprobación
// regulatoria vencida: si es true cuentan como NO satisfechas; si es false se
// saltan (satisfechas por vacuidad). Cambia el resultado de elegibilidad, por
// eso es decisión del caller y no está cableado.
type EvalOptions struct {
	Now               time.Time
	RequireCompliance bool
}

// Evaluator evalúa el árbol de reglas de una promoción contra los atributos
// de una variante. Las reglas compuestas referencian a sus hijas por ID.
type Evaluator struct {
	byID  map[string]*entity.Rule
	roots []*entity.Rule
}

// NewEvaluator indexa las reglas y separa las raíces (sin padre), ordenadas
// por prioridad ascendente.
func NewEvaluator(rules []entity.Rule) *Evaluator {
	e := &Evaluator{byID: make(map[string]*entity.Rule, len(rules))}
	for i := range rules {
		e.byID[rules[i].ID] = &rules[i]
	}
	for i := range rules {
		if rules[i].ParentRuleID == "" {
			e.roots = append(e.roots, &rules[i])
		}
	}
	sort.SliceStable(e.roots, func(i, j int) bool { return e.roots[i].Priority < e.roots[j].Priority })
	return e
}

// EvaluateAll evalúa todas las reglas raíz en orden de prioridad. La primera
// regla obligatoria que falla corta la evaluación (fail-fast). Un error de
// coerción es un error de evaluación, nunca un false silencioso.
func (e *Evaluator) EvaluateAll(v *entity.Variant, opts EvalOptions) (bool, error) {
	for _, r := range e.roots {
		ok, err := e.Evaluate(r, v, opts)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Evaluate evalúa una regla (hoja o compuesta) contra la variante.
func (e *Evaluator) Evaluate(r *entity.Rule, v *entity.Variant, opts EvalOptions) (bool, error) {
	if skipped(r, opts.Now) {
		// Regla fuera de juego: no satisfecha bajo cumplimiento estricto,
		// satisfecha por vacuidad en caso contrario.
		return !opts.RequireCompliance, nil
	}
	if r.HasChildRules() {
		return e.evaluateCompound(r, v, opts)
	}
	return evaluateLeaf(r, v)
}

// skipped reglas inactivas o con aprobación regulatoria vencida.
func skipped(r *entity.Rule, now time.Time) bool {
	if !r.Active {
		return true
	}
	return r.ComplianceExpiryDate != nil && r.ComplianceExpiryDate.Before(now)
}

// evaluateCompound combina las hijas con AND (corta en el primer false) u OR
// (corta en el primer true), en orden de prioridad ascendente.
func (e *Evaluator) evaluateCompound(r *entity.Rule, v *entity.Variant, opts EvalOptions) (bool, error) {
	children := make([]*entity.Rule, 0, len(r.ChildRuleIDs))
	for _, id := range r.ChildRuleIDs {
		child, ok := e.byID[id]
		if !ok {
			return false, fmt.Errorf("%w: regla %s referencia hija inexistente %s", domain.ErrRuleEvaluation, r.ID, id)
		}
		children = append(children, child)
	}
	sort.SliceStable(children, func(i, j int) bool { return children[i].Priority < children[j].Priority })

	op := r.LogicalOperator
	if op == "" {
		op = entity.LogicalAnd
	}
	switch op {
	case entity.LogicalAnd:
		for _, child := range children {
			ok, err := e.Evaluate(child, v, opts)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case entity.LogicalOr:
		for _, child := range children {
			ok, err := e.Evaluate(child, v, opts)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("%w: operador lógico desconocido %q en regla %s", domain.ErrRuleEvaluation, op, r.ID)
	}
}

// evaluateLeaf predicado field/operator/value sobre los atributos de la variante.
func evaluateLeaf(r *entity.Rule, v *entity.Variant) (bool, error) {
	actual, ok := v.Attribute(r.Field)
	if !ok {
		return false, fmt.Errorf("%w: la variante %s no tiene el atributo %q (regla %s)",
			domain.ErrRuleEvaluation, v.ID, r.Field, r.ID)
	}

	switch r.Operator {
	case entity.OperatorContains:
		if r.ValueType != "" && r.ValueType != entity.ValueTypeString {
			return false, fmt.Errorf("%w: CONTAINS solo aplica a STRING (regla %s)", domain.ErrRuleEvaluation, r.ID)
		}
		return strings.Contains(actual, r.Value), nil
	case entity.OperatorInList:
		for _, candidate := range strings.Split(r.Value, ",") {
			eq, err := compare(actual, strings.TrimSpace(candidate), r)
			if err != nil {
				return false, err
			}
			if eq == 0 {
				return true, nil
			}
		}
		return false, nil
	case entity.OperatorEquals:
		cmp, err := compare(actual, r.Value, r)
		return cmp == 0, err
	case entity.OperatorNotEquals:
		cmp, err := compare(actual, r.Value, r)
		return cmp != 0, err
	case entity.OperatorGreaterThan:
		cmp, err := compare(actual, r.Value, r)
		return cmp > 0, err
	case entity.OperatorLessThan:
		cmp, err := compare(actual, r.Value, r)
		return cmp < 0, err
	default:
		return false, fmt.Errorf("%w: operador desconocido %q en regla %s", domain.ErrRuleEvaluation, r.Operator, r.ID)
	}
}

// compare coerciona ambos lados según ValueType y devuelve -1/0/1.
// Un fallo de coerción en cualquiera de los lados es error de evaluación.
func compare(actual, expected string, r *entity.Rule) (int, error) {
	switch r.ValueType {
	case entity.ValueTypeNumber:
		a, err := decimal.NewFromString(actual)
		if err != nil {
			return 0, coercionErr(r, actual, err)
		}
		b, err := decimal.NewFromString(expected)
		if err != nil {
			return 0, coercionErr(r, expected, err)
		}
		return a.Cmp(b), nil
	case entity.ValueTypeDate:
		a, err := parseDate(actual, r.ValueFormat)
		if err != nil {
			return 0, coercionErr(r, actual, err)
		}
		b, err := parseDate(expected, r.ValueFormat)
		if err != nil {
			return 0, coercionErr(r, expected, err)
		}
		return a.Compare(b), nil
	case entity.ValueTypeBoolean:
		a, err := strconv.ParseBool(actual)
		if err != nil {
			return 0, coercionErr(r, actual, err)
		}
		b, err := strconv.ParseBool(expected)
		if err != nil {
			return 0, coercionErr(r, expected, err)
		}
		if a == b {
			return 0, nil
		}
		return 1, nil
	case entity.ValueTypeString, "":
		return strings.Compare(actual, expected), nil
	default:
		return 0, fmt.Errorf("%w: value type desconocido %q en regla %s", domain.ErrRuleEvaluation, r.ValueType, r.ID)
	}
}

// parseDate acepta el patrón de la regla (ValueFormat en layout Go), RFC3339
// o fecha simple AAAA-MM-DD.
func parseDate(s, format string) (time.Time, error) {
	if format != "" {
		return time.Parse(format, s)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func coercionErr(r *entity.Rule, value string, err error) error {
	return fmt.Errorf("%w: regla %s no pudo coercionar %q como %s: %v",
		domain.ErrRuleEvaluation, r.ID, value, r.ValueType, err)
}
