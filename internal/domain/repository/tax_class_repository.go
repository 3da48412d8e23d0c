package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// TaxClassRepository puerto de persistencia para clases tributarias.
type TaxClassRepository interface {
	GetByID(ctx context.Context, id string) (*entity.TaxClass, error)
	GetByType(ctx context.Context, taxType entity.TaxType) (*entity.TaxClass, error)
	List(ctx context.Context) ([]*entity.TaxClass, error)
}
