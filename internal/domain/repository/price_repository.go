package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// PriceRepository puerto de persistencia para el historial de precios.
type PriceRepository interface {
	Create(ctx context.Context, price *entity.Price) error
	GetCurrent(ctx context.Context, variantID string) (*entity.Price, error)
	ListByVariant(ctx context.Context, variantID string) ([]*entity.Price, error)
	// SwapCurrent supersesión atómica: cierra el precio vigente (EffectiveTo,
	// Current=false), inserta newPrice con Current=true y registra el cambio
	// de auditoría, todo en una transacción corta. Si oldPriceID ya no es el
	// precio vigente devuelve domain.ErrConflict.
	SwapCurrent(ctx context.Context, variantID, oldPriceID string, newPrice *entity.Price, change *entity.PriceChange) error
	ListChangesByPromotion(ctx context.Context, promotionID string) ([]*entity.PriceChange, error)
}
