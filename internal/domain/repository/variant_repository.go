package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// VariantRepository puerto de persistencia para Variant (DIP).
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error)
	Update(ctx context.Context, variant *entity.Variant) error
}
