package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/usecase"
)

// TaxClassHandler maneja las peticiones HTTP para clases tributarias.
type TaxClassHandler struct {
	uc *usecase.TaxClassUseCase
}

// NewTaxClassHandler construye el handler.
func NewTaxClassHandler(uc *usecase.TaxClassUseCase) *TaxClassHandler {
	return &TaxClassHandler{uc: uc}
}

// List GET /api/tax-classes
func (h *TaxClassHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByType GET /api/tax-classes/:type
func (h *TaxClassHandler) GetByType(c *fiber.Ctx) error {
	out, err := h.uc.GetByType(c.Context(), c.Params("type"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
