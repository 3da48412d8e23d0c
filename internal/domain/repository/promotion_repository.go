package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// PromotionRepository puerto de persistencia para Promotion y sus reglas
// (la promoción es dueña exclusiva de sus Rules: se cargan y guardan juntas).
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	GetByID(ctx context.Context, id string) (*entity.Promotion, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	Delete(ctx context.Context, id string) error
}
