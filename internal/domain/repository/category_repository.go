package repository

import (
	"context"

	"github.com/jhoicas/pms-api/internal/domain/entity"
)

// CategoryRepository puerto de lectura para Category. Las categorías son datos
// de referencia (flag de restricción regulatoria); su mantenimiento jerárquico
// queda fuera del sistema.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
}
