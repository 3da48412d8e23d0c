package dto

// ReservationLineRequest línea de un batch de reserva/liberación.
type ReservationLineRequest struct {
	VariantID   string `json:"variant_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	Amount      int    `json:"amount" validate:"required,gt=0"`
}

// ReserveStockRequest batch de reserva todo-o-nada.
type ReserveStockRequest struct {
	Lines []ReservationLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReleaseStockRequest batch de liberación (fulfillment o cancelación).
type ReleaseStockRequest struct {
	Lines []ReservationLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReservedLineResponse versión actualizada por línea; el caller la guarda
// para la liberación posterior.
type ReservedLineResponse struct {
	VariantID    string `json:"variant_id"`
	WarehouseID  string `json:"warehouse_id"`
	Amount       int    `json:"amount"`
	AllocationID string `json:"allocation_id"`
	Version      int64  `json:"version"`
}

// ReservationResponse resultado de un batch exitoso.
type ReservationResponse struct {
	Lines []ReservedLineResponse `json:"lines"`
}

// AdjustQuantityRequest ajuste de cantidad total de una asignación.
type AdjustQuantityRequest struct {
	VariantID   string `json:"variant_id" validate:"required,uuid"`
	WarehouseID string `json:"warehouse_id" validate:"required,uuid"`
	NewQuantity int    `json:"new_quantity" validate:"min=0"`
}

// AllocationResponse estado de una asignación de stock.
type AllocationResponse struct {
	ID               string `json:"id"`
	WarehouseID      string `json:"warehouse_id"`
	VariantID        string `json:"variant_id"`
	Quantity         int    `json:"quantity"`
	ReservedQuantity int    `json:"reserved_quantity"`
	Available        int    `json:"available"`
	Version          int64  `json:"version"`
}
