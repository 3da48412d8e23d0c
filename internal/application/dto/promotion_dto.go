package dto

import "time"

// RuleRequest regla de una promoción (hoja o compuesta).
// ID es un identificador local al request: las referencias parent_rule_id y
// child_rule_ids de otras reglas del mismo request se resuelven contra él y
// se reemplazan por los IDs definitivos al persistir.
type RuleRequest struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Type            string     `json:"type" validate:"required"`
	Field           string     `json:"field"`
	Operator        string     `json:"operator"`
	Value           string     `json:"value"`
	ValueType       string     `json:"value_type"`
	ValueFormat     string     `json:"value_format"`
	Priority        int        `json:"priority"`
	Active          *bool      `json:"active"` // nil = true
	ParentRuleID    string     `json:"parent_rule_id"`
	LogicalOperator string     `json:"logical_operator"`
	ChildRuleIDs    []string   `json:"child_rule_ids"`
	CPACompliant    bool       `json:"cpa_compliant"`
	ComplianceAt    *time.Time `json:"compliance_approval_date"`
	ComplianceExp   *time.Time `json:"compliance_expiry_date"`
}

// CreatePromotionRequest entrada para crear una promoción con sus reglas.
type CreatePromotionRequest struct {
	Name                string        `json:"name" validate:"required,max=255"`
	Description         string        `json:"description" validate:"max=1000"`
	Type                string        `json:"type" validate:"required"`
	RequiredQuantity    int           `json:"required_quantity"`
	FreeQuantity        int           `json:"free_quantity"`
	DiscountValue       string        `json:"discount_value"` // decimal como string
	StartDate           time.Time     `json:"start_date" validate:"required"`
	EndDate             *time.Time    `json:"end_date"`
	CPACompliantDisplay bool          `json:"cpa_compliant_display"`
	SARSComplianceCode  string        `json:"sars_compliance_code"`
	CPAReferenceNumber  string        `json:"cpa_reference_number"`
	Rules               []RuleRequest `json:"rules"`
}

// PromotionResponse salida de una promoción.
type PromotionResponse struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Description         string     `json:"description"`
	CPADescription      string     `json:"cpa_description"`
	Type                string     `json:"type"`
	RequiredQuantity    int        `json:"required_quantity,omitempty"`
	FreeQuantity        int        `json:"free_quantity,omitempty"`
	DiscountValue       string     `json:"discount_value,omitempty"`
	StartDate           time.Time  `json:"start_date"`
	EndDate             *time.Time `json:"end_date,omitempty"`
	CPACompliantDisplay bool       `json:"cpa_compliant_display"`
	RuleCount           int        `json:"rule_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

// PromotionListResponse lista paginada.
type PromotionListResponse struct {
	Items []PromotionResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
