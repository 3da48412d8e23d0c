package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
)

// PromotionType tipo de promoción.
type PromotionType string

const (
	PromotionTypeBOGO       PromotionType = "BOGO"        // Buy One Get One
	PromotionTypeMultibuy   PromotionType = "MULTIBUY"    // 3x2, 4x3
	PromotionTypeFreeSample PromotionType = "FREE_SAMPLE" // muestra gratis
	PromotionTypePercentage PromotionType = "PERCENTAGE"  // 20% off
	PromotionTypeFixed      PromotionType = "FIXED"       // R100 off
)

// VATDisclosure leyenda obligatoria en la descripción para lanzamientos SA
// (Consumer Protection Act: precio mostrado debe incluir IVA).
const VATDisclosure = "Price includes 15% VAT"

// Promotion promoción sobre variantes de producto. Es dueña exclusiva de sus
// reglas y de los registros PriceChange que genera.
type Promotion struct {
	ID          string
	Name        string
	Description string
	Type        PromotionType

	// Parámetros según tipo: BOGO/MULTIBUY usan RequiredQuantity/FreeQuantity;
	// PERCENTAGE/FIXED usan DiscountValue.
	RequiredQuantity int
	FreeQuantity     int
	DiscountValue    decimal.Decimal

	// Vigencia [StartDate, EndDate); EndDate nil = sin fecha de cierre.
	StartDate time.Time
	EndDate   *time.Time

	Rules []Rule

	// Cumplimiento regulatorio SA
	SARSComplianceCode     string // formato SARSnnnnnnnnn
	CPAReferenceNumber     string // formato CPAnnnnnnnnnnnn
	CPACompliantDisplay    bool
	ComplianceApprovalDate *time.Time
	ApprovedBy             string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate invariantes de escritura: BOGO/MULTIBUY exigen cantidades positivas;
// PERCENTAGE/FIXED exigen descuento positivo. Se aplica antes de persistir.
func (p *Promotion) Validate() error {
	switch p.Type {
	case PromotionTypeBOGO, PromotionTypeMultibuy:
		if p.RequiredQuantity <= 0 {
			return fmt.Errorf("%w: required quantity debe ser positivo para %s", domain.ErrInvalidInput, p.Type)
		}
		if p.FreeQuantity <= 0 {
			return fmt.Errorf("%w: free quantity debe ser positivo para %s", domain.ErrInvalidInput, p.Type)
		}
	case PromotionTypePercentage, PromotionTypeFixed:
		if p.DiscountValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: discount value debe ser positivo para %s", domain.ErrInvalidInput, p.Type)
		}
	case PromotionTypeFreeSample:
		// sin parámetros obligatorios
	default:
		return fmt.Errorf("%w: tipo de promoción desconocido %q", domain.ErrInvalidInput, p.Type)
	}
	if p.StartDate.IsZero() {
		return fmt.Errorf("%w: start date es obligatoria", domain.ErrInvalidInput)
	}
	if p.EndDate != nil && !p.EndDate.After(p.StartDate) {
		return fmt.Errorf("%w: end date debe ser posterior a start date", domain.ErrInvalidInput)
	}
	return nil
}

// IsActiveAt indica si now cae dentro de la ventana [StartDate, EndDate).
func (p *Promotion) IsActiveAt(now time.Time) bool {
	if now.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || now.Before(*p.EndDate)
}

// SavingsPercentage porcentaje de ahorro de BOGO/MULTIBUY:
// free/(required+free) a 4 decimales half-up, expresado como porcentaje.
func (p *Promotion) SavingsPercentage() decimal.Decimal {
	total := decimal.NewFromInt(int64(p.RequiredQuantity + p.FreeQuantity))
	if total.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.FreeQuantity)).
		DivRound(total, 4).
		Mul(decimal.NewFromInt(100))
}

// CPACompliantDescription descripción apta para display según CPA.
func (p *Promotion) CPACompliantDescription() string {
	switch p.Type {
	case PromotionTypeBOGO:
		return fmt.Sprintf("Buy %d, Get %d FREE (%s%% saving)",
			p.RequiredQuantity, p.FreeQuantity, p.SavingsPercentage().StringFixed(2))
	case PromotionTypeMultibuy:
		return fmt.Sprintf("Get %d for the price of %d (%s%% saving)",
			p.RequiredQuantity+p.FreeQuantity, p.RequiredQuantity, p.SavingsPercentage().StringFixed(2))
	case PromotionTypeFreeSample:
		return "FREE sample with purchase (zero-rated for VAT)"
	default:
		return p.Description
	}
}

// IsCompliantWithRestrictions chequeo regulatorio SA para categorías
// restringidas: display CPA habilitado y descripción con la leyenda de IVA.
func (p *Promotion) IsCompliantWithRestrictions() bool {
	return p.CPACompliantDisplay && strings.Contains(p.Description, VATDisclosure)
}
