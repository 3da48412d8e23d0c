package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/application/stock"
)

// StockHandler maneja las peticiones HTTP del libro de reservas de stock.
type StockHandler struct {
	ledger      *stock.Ledger
	coordinator *stock.Coordinator
}

// NewStockHandler construye el handler.
func NewStockHandler(ledger *stock.Ledger, coordinator *stock.Coordinator) *StockHandler {
	return &StockHandler{ledger: ledger, coordinator: coordinator}
}

// CreateAllocation POST /api/stock/allocations
// Registra una asignación bodega+variante con su cantidad inicial.
func (h *StockHandler) CreateAllocation(c *fiber.Ctx) error {
	var in struct {
		VariantID   string `json:"variant_id"`
		WarehouseID string `json:"warehouse_id"`
		Quantity    int    `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	alloc, err := h.ledger.CreateAllocation(c.Context(), in.WarehouseID, in.VariantID, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AllocationResponse{
		ID:               alloc.ID,
		WarehouseID:      alloc.WarehouseID,
		VariantID:        alloc.VariantID,
		Quantity:         alloc.Quantity,
		ReservedQuantity: alloc.ReservedQuantity,
		Available:        alloc.AvailableQuantity(),
		Version:          alloc.Version,
	})
}

// GetAllocation GET /api/stock/allocations?warehouse_id=&variant_id=
func (h *StockHandler) GetAllocation(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	variantID := c.Query("variant_id")
	if warehouseID == "" || variantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id y variant_id son requeridos"})
	}
	alloc, err := h.ledger.Get(c.Context(), warehouseID, variantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AllocationResponse{
		ID:               alloc.ID,
		WarehouseID:      alloc.WarehouseID,
		VariantID:        alloc.VariantID,
		Quantity:         alloc.Quantity,
		ReservedQuantity: alloc.ReservedQuantity,
		Available:        alloc.AvailableQuantity(),
		Version:          alloc.Version,
	})
}

// Reserve POST /api/stock/reservations
// Batch todo-o-nada: reserva todas las líneas o ninguna. Ante stock
// insuficiente o conflicto persistente responde 409 con el batch compensado.
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.coordinator.ReserveBatch(c.Context(), toLines(in.Lines))
	if err != nil {
		return respondError(c, err)
	}

	out := dto.ReservationResponse{Lines: make([]dto.ReservedLineResponse, 0, len(result.Lines))}
	for _, rl := range result.Lines {
		out.Lines = append(out.Lines, dto.ReservedLineResponse{
			VariantID:    rl.VariantID,
			WarehouseID:  rl.WarehouseID,
			Amount:       rl.Amount,
			AllocationID: rl.AllocationID,
			Version:      rl.Version,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Release POST /api/stock/releases
// Libera líneas reservadas previamente (fulfillment o cancelación).
func (h *StockHandler) Release(c *fiber.Ctx) error {
	var in dto.ReleaseStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.coordinator.ReleaseBatch(c.Context(), toLines(in.Lines)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reservas liberadas"})
}

// Adjust POST /api/stock/adjustments
// Fija la cantidad total de una asignación (conteo físico, merma, recepción).
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	alloc, err := h.ledger.Get(c.Context(), in.WarehouseID, in.VariantID)
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.ledger.AdjustQuantity(c.Context(), alloc, in.NewQuantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AllocationResponse{
		ID:               alloc.ID,
		WarehouseID:      alloc.WarehouseID,
		VariantID:        alloc.VariantID,
		Quantity:         alloc.Quantity,
		ReservedQuantity: alloc.ReservedQuantity,
		Available:        alloc.AvailableQuantity(),
		Version:          alloc.Version,
	})
}

func toLines(in []dto.ReservationLineRequest) []stock.Line {
	lines := make([]stock.Line, 0, len(in))
	for _, l := range in {
		lines = append(lines, stock.Line{
			VariantID:   l.VariantID,
			WarehouseID: l.WarehouseID,
			Amount:      l.Amount,
		})
	}
	return lines
}
