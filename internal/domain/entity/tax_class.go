package entity

import "github.com/shopspring/decimal"

// TaxType clasificación de IVA según SARS (Sudáfrica).
type TaxType string

const (
	TaxTypeStandard  TaxType = "STANDARD"   // 15% VAT
	TaxTypeZeroRated TaxType = "ZERO_RATED" // 0% (alimentos básicos)
	TaxTypeExempt    TaxType = "EXEMPT"     // sin IVA (ej. arriendo residencial)
)

// TaxClass clasificación tributaria aplicable a un precio.
// Rate es porcentaje (ej. 15 para 15%).
type TaxClass struct {
	ID          string
	TaxType     TaxType
	Name        string
	Description string
	Rate        decimal.Decimal
	Active      bool
	SARSCode    string // formato VATnnn
}

// CalculateTax calcula el impuesto para un monto base (excluyendo IVA).
// EXEMPT y ZERO_RATED siempre devuelven cero sin importar Rate.
// La tasa se divide por 100 con 4 decimales half-up; el redondeo a 2 decimales
// para display ocurre aguas abajo (motor de precios), no aquí.
func (t *TaxClass) CalculateTax(amount decimal.Decimal) decimal.Decimal {
	if t == nil || t.TaxType == TaxTypeExempt || t.TaxType == TaxTypeZeroRated {
		return decimal.Zero
	}
	return amount.Mul(t.Rate.DivRound(decimal.NewFromInt(100), 4))
}
