package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

var _ repository.TaxClassRepository = (*TaxClassRepo)(nil)

// TaxClassRepo persistencia de clases tributarias (catálogo de solo lectura
// desde la perspectiva del motor de precios).
type TaxClassRepo struct {
	q Querier
}

// NewTaxClassRepository construye el adaptador.
func NewTaxClassRepository(q Querier) *TaxClassRepo {
	return &TaxClassRepo{q: q}
}

const taxClassColumns = `id, tax_type, name, description, rate, active, sars_code`

// GetByID obtiene una clase tributaria por ID.
func (r *TaxClassRepo) GetByID(ctx context.Context, id string) (*entity.TaxClass, error) {
	var t entity.TaxClass
	err := r.q.QueryRow(ctx, `SELECT `+taxClassColumns+` FROM tax_classes WHERE id = $1`, id).Scan(
		&t.ID, &t.TaxType, &t.Name, &t.Description, &t.Rate, &t.Active, &t.SARSCode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: clase tributaria %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("get tax class: %w", err)
	}
	return &t, nil
}

// GetByType obtiene la clase tributaria activa de un tipo (único por tipo).
func (r *TaxClassRepo) GetByType(ctx context.Context, taxType entity.TaxType) (*entity.TaxClass, error) {
	var t entity.TaxClass
	err := r.q.QueryRow(ctx,
		`SELECT `+taxClassColumns+` FROM tax_classes WHERE tax_type = $1 AND active = true`, taxType,
	).Scan(&t.ID, &t.TaxType, &t.Name, &t.Description, &t.Rate, &t.Active, &t.SARSCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: clase tributaria %s", domain.ErrNotFound, taxType)
		}
		return nil, fmt.Errorf("get tax class by type: %w", err)
	}
	return &t, nil
}

// List clases tributarias.
func (r *TaxClassRepo) List(ctx context.Context) ([]*entity.TaxClass, error) {
	rows, err := r.q.Query(ctx, `SELECT `+taxClassColumns+` FROM tax_classes ORDER BY tax_type`)
	if err != nil {
		return nil, fmt.Errorf("list tax classes: %w", err)
	}
	defer rows.Close()

	var out []*entity.TaxClass
	for rows.Next() {
		var t entity.TaxClass
		if err := rows.Scan(&t.ID, &t.TaxType, &t.Name, &t.Description, &t.Rate, &t.Active, &t.SARSCode); err != nil {
			return nil, fmt.Errorf("scan tax class: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
