package entity

import "time"

// RuleType categoría de una regla de promoción.
type RuleType string

const (
	RuleTypeEligibility RuleType = "ELIGIBILITY"
	RuleTypeRestriction RuleType = "RESTRICTION"
	RuleTypeCompliance  RuleType = "COMPLIANCE" // reglas regulatorias SA
	RuleTypeBusiness    RuleType = "BUSINESS"
)

// ValueType tipo del valor de comparación de una regla hoja.
type ValueType string

const (
	ValueTypeString  ValueType = "STRING"
	ValueTypeNumber  ValueType = "NUMBER"
	ValueTypeDate    ValueType = "DATE"
	ValueTypeBoolean ValueType = "BOOLEAN"
)

// Operadores soportados por las reglas hoja.
const (
	OperatorEquals      = "EQUALS"
	OperatorNotEquals   = "NOT_EQUALS"
	OperatorGreaterThan = "GREATER_THAN"
	OperatorLessThan    = "LESS_THAN"
	OperatorContains    = "CONTAINS"
	OperatorInList      = "IN_LIST"
)

// Operadores lógicos para reglas compuestas.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// Rule regla de una promoción. Una regla hoja evalúa un predicado
// field/operator/value sobre los atributos de la variante; una regla compuesta
// combina sus hijas (ChildRuleIDs) con LogicalOperator. La evaluación recorre
// las reglas en orden ascendente de Priority.
type Rule struct {
	ID          string
	PromotionID string
	Name        string
	Description string
	Type        RuleType

	Field    string
	Operator string
	Value    string

	ValueType   ValueType
	ValueFormat string // patrón opcional para fechas/números
	Priority    int    // menor número = mayor prioridad

	Active     bool
	SystemRule bool

	// Composición (árbol por IDs, sin ciclos de referencias)
	ParentRuleID    string
	LogicalOperator string
	ChildRuleIDs    []string

	// Cumplimiento regulatorio SA
	ComplianceSection      string
	CPACompliant           bool
	RegulatoryReference    string
	ComplianceApprovalDate *time.Time
	ComplianceExpiryDate   *time.Time

	ErrorCode    string
	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasChildRules indica si la regla es compuesta.
func (r *Rule) HasChildRules() bool {
	return len(r.ChildRuleIDs) > 0
}

// IsCompliantAt indica si la regla mantiene su aprobación regulatoria vigente.
// Una regla con ComplianceExpiryDate vencida nunca está en cumplimiento.
func (r *Rule) IsCompliantAt(now time.Time) bool {
	if r.ComplianceExpiryDate != nil && r.ComplianceExpiryDate.Before(now) {
		return false
	}
	return r.CPACompliant && r.ComplianceApprovalDate != nil
}
