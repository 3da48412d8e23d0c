package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/pricing"
	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// PricingHandler maneja cotizaciones, aplicación de promociones e historial
// de precios.
type PricingHandler struct {
	uc     *pricing.UseCase
	report *pricing.ReportUseCase
}

// NewPricingHandler construye el handler.
func NewPricingHandler(uc *pricing.UseCase, report *pricing.ReportUseCase) *PricingHandler {
	return &PricingHandler{uc: uc, report: report}
}

// Quote POST /api/variants/:id/quote
// Cotiza la variante contra promociones candidatas; gana la de menor precio
// efectivo. Sin candidatas elegibles devuelve el precio base vigente.
func (h *PricingHandler) Quote(c *fiber.Ctx) error {
	variantID := c.Params("id")
	var in dto.PriceVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	now := time.Now()
	if in.At != nil {
		now = *in.At
	}
	quote, err := h.uc.PriceVariant(c.Context(), variantID, in.CandidatePromotionIDs, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QuoteResponse{
		VariantID:          quote.VariantID,
		BasePrice:          quote.BasePrice.String(),
		DisplayPrice:       quote.DisplayPrice.StringFixed(2),
		AppliedPromotionID: quote.AppliedPromotionID,
	})
}

// ApplyPromotion POST /api/variants/:id/apply-promotion
// Materializa una promoción elegible como precio vigente de la variante.
func (h *PricingHandler) ApplyPromotion(c *fiber.Ctx) error {
	variantID := c.Params("id")
	var in dto.ApplyPromotionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	price, err := h.uc.ApplyPromotion(c.Context(), in.PromotionID, variantID, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toPriceResponse(price))
}

// History GET /api/variants/:id/prices
func (h *PricingHandler) History(c *fiber.Ctx) error {
	variantID := c.Params("id")
	prices, err := h.uc.PriceHistory(c.Context(), variantID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PriceResponse, 0, len(prices))
	for _, p := range prices {
		out = append(out, toPriceResponse(p))
	}
	return c.JSON(fiber.Map{"variant_id": variantID, "prices": out})
}

// PriceChanges GET /api/promotions/:id/price-changes
// Auditoría: qué precios aplicó una promoción y cuándo.
func (h *PricingHandler) PriceChanges(c *fiber.Ctx) error {
	promotionID := c.Params("id")
	changes, err := h.uc.PriceChanges(c.Context(), promotionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"promotion_id": promotionID, "changes": changes, "total": len(changes)})
}

// PriceList GET /api/reports/price-list
// Genera el PDF de la lista de precios vigentes con IVA incluido.
func (h *PricingHandler) PriceList(c *fiber.Ctx) error {
	title := c.Query("title", "Lista de Precios")
	pdfBytes, err := h.report.BuildPriceList(c.Context(), title)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="price-list.pdf"`)
	return c.Send(pdfBytes)
}

func toPriceResponse(p *entity.Price) dto.PriceResponse {
	return dto.PriceResponse{
		ID:            p.ID,
		VariantID:     p.VariantID,
		BasePrice:     p.BasePrice.String(),
		DisplayPrice:  p.DisplayPrice().StringFixed(2),
		Current:       p.Current,
		PriceType:     string(p.PriceType),
		PriceSource:   p.PriceSource,
		EffectiveFrom: p.EffectiveFrom,
		EffectiveTo:   p.EffectiveTo,
	}
}
