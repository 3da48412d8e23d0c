package usecase

import (
	"context"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// TaxClassUseCase consulta de clases tributarias (datos de referencia SARS).
type TaxClassUseCase struct {
	repo repository.TaxClassRepository
}

// NewTaxClassUseCase construye el caso de uso.
func NewTaxClassUseCase(repo repository.TaxClassRepository) *TaxClassUseCase {
	return &TaxClassUseCase{repo: repo}
}

// List todas las clases tributarias.
func (uc *TaxClassUseCase) List(ctx context.Context) ([]dto.TaxClassResponse, error) {
	classes, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaxClassResponse, 0, len(classes))
	for _, t := range classes {
		out = append(out, toTaxClassResponse(t))
	}
	return out, nil
}

// GetByType obtiene la clase tributaria activa de un tipo (STANDARD,
// ZERO_RATED, EXEMPT).
func (uc *TaxClassUseCase) GetByType(ctx context.Context, taxType string) (*dto.TaxClassResponse, error) {
	t, err := uc.repo.GetByType(ctx, entity.TaxType(taxType))
	if err != nil {
		return nil, err
	}
	resp := toTaxClassResponse(t)
	return &resp, nil
}

func toTaxClassResponse(t *entity.TaxClass) dto.TaxClassResponse {
	return dto.TaxClassResponse{
		ID:          t.ID,
		TaxType:     string(t.TaxType),
		Name:        t.Name,
		Description: t.Description,
		Rate:        t.Rate.String(),
		Active:      t.Active,
		SARSCode:    t.SARSCode,
	}
}
