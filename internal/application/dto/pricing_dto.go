package dto

import "time"

// PriceVariantRequest cotización de una variante contra promociones candidatas.
type PriceVariantRequest struct {
	CandidatePromotionIDs []string   `json:"candidate_promotion_ids"`
	At                    *time.Time `json:"at"` // nil = ahora
}

// QuoteResponse resultado de la cotización.
type QuoteResponse struct {
	VariantID          string `json:"variant_id"`
	BasePrice          string `json:"base_price"`    // excluye IVA
	DisplayPrice       string `json:"display_price"` // incluye IVA, 2 decimales
	AppliedPromotionID string `json:"applied_promotion_id,omitempty"`
}

// ApplyPromotionRequest materializa una promoción como precio vigente.
type ApplyPromotionRequest struct {
	PromotionID string `json:"promotion_id" validate:"required,uuid"`
}

// TaxClassResponse clase tributaria (dato de referencia SARS).
type TaxClassResponse struct {
	ID          string `json:"id"`
	TaxType     string `json:"tax_type"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Rate        string `json:"rate"` // porcentaje, ej. "15"
	Active      bool   `json:"active"`
	SARSCode    string `json:"sars_code,omitempty"`
}

// PriceResponse un precio del historial de la variante.
type PriceResponse struct {
	ID            string     `json:"id"`
	VariantID     string     `json:"variant_id"`
	BasePrice     string     `json:"base_price"`
	DisplayPrice  string     `json:"display_price"`
	Current       bool       `json:"current"`
	PriceType     string     `json:"price_type"`
	PriceSource   string     `json:"price_source,omitempty"`
	EffectiveFrom time.Time  `json:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}
