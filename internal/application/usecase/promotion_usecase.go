package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/application/dto"
	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/internal/domain/repository"
)

// PromotionUseCase administración de promociones y sus reglas.
type PromotionUseCase struct {
	repo repository.PromotionRepository
}

// NewPromotionUseCase construye el caso de uso.
func NewPromotionUseCase(repo repository.PromotionRepository) *PromotionUseCase {
	return &PromotionUseCase{repo: repo}
}

// Create valida los invariantes de escritura (cantidades para BOGO/MULTIBUY,
// descuento para PERCENTAGE/FIXED) y persiste la promoción con sus reglas.
func (uc *PromotionUseCase) Create(ctx context.Context, in dto.CreatePromotionRequest) (*dto.PromotionResponse, error) {
	now := time.Now()
	promo := &entity.Promotion{
		ID:                  uuid.New().String(),
		Name:                in.Name,
		Description:         in.Description,
		Type:                entity.PromotionType(in.Type),
		RequiredQuantity:    in.RequiredQuantity,
		FreeQuantity:        in.FreeQuantity,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		CPACompliantDisplay: in.CPACompliantDisplay,
		SARSComplianceCode:  in.SARSComplianceCode,
		CPAReferenceNumber:  in.CPAReferenceNumber,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.DiscountValue != "" {
		dv, err := decimal.NewFromString(in.DiscountValue)
		if err != nil {
			return nil, fmt.Errorf("%w: discount value %q no es decimal", domain.ErrInvalidInput, in.DiscountValue)
		}
		promo.DiscountValue = dv
	}

	// Los IDs de regla del request son locales; aquí se generan los IDs
	// definitivos y toda referencia padre/hija se resuelve contra ellos.
	// Una referencia que no resuelve dejaría un árbol inevaluable, así que
	// se rechaza en escritura.
	finalIDs := make([]string, len(in.Rules))
	byLocalID := make(map[string]string, len(in.Rules))
	for i, rin := range in.Rules {
		finalIDs[i] = uuid.New().String()
		if rin.ID == "" {
			continue
		}
		if _, dup := byLocalID[rin.ID]; dup {
			return nil, fmt.Errorf("%w: id de regla %q duplicado en el request", domain.ErrInvalidInput, rin.ID)
		}
		byLocalID[rin.ID] = finalIDs[i]
	}
	resolveRef := func(localID string) (string, error) {
		if localID == "" {
			return "", nil
		}
		id, ok := byLocalID[localID]
		if !ok {
			return "", fmt.Errorf("%w: la referencia de regla %q no existe en el request", domain.ErrInvalidInput, localID)
		}
		return id, nil
	}

	for i, rin := range in.Rules {
		parentID, err := resolveRef(rin.ParentRuleID)
		if err != nil {
			return nil, err
		}
		var childIDs []string
		for _, ref := range rin.ChildRuleIDs {
			childID, err := resolveRef(ref)
			if err != nil {
				return nil, err
			}
			childIDs = append(childIDs, childID)
		}

		rule := entity.Rule{
			ID:                     finalIDs[i],
			PromotionID:            promo.ID,
			Name:                   rin.Name,
			Type:                   entity.RuleType(rin.Type),
			Field:                  rin.Field,
			Operator:               rin.Operator,
			Value:                  rin.Value,
			ValueType:              entity.ValueType(rin.ValueType),
			ValueFormat:            rin.ValueFormat,
			Priority:               rin.Priority,
			Active:                 rin.Active == nil || *rin.Active,
			ParentRuleID:           parentID,
			LogicalOperator:        rin.LogicalOperator,
			ChildRuleIDs:           childIDs,
			CPACompliant:           rin.CPACompliant,
			ComplianceApprovalDate: rin.ComplianceAt,
			ComplianceExpiryDate:   rin.ComplianceExp,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		promo.Rules = append(promo.Rules, rule)
	}

	if err := promo.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return toPromotionResponse(promo), nil
}

// GetByID obtiene una promoción con sus reglas.
func (uc *PromotionUseCase) GetByID(ctx context.Context, id string) (*dto.PromotionResponse, error) {
	promo, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPromotionResponse(promo), nil
}

// List lista promociones paginadas.
func (uc *PromotionUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.PromotionListResponse, error) {
	page.DefaultPage()
	promos, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.PromotionListResponse{
		Items: make([]dto.PromotionResponse, 0, len(promos)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range promos {
		out.Items = append(out.Items, *toPromotionResponse(p))
	}
	return out, nil
}

func toPromotionResponse(p *entity.Promotion) *dto.PromotionResponse {
	resp := &dto.PromotionResponse{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		CPADescription:      p.CPACompliantDescription(),
		Type:                string(p.Type),
		RequiredQuantity:    p.RequiredQuantity,
		FreeQuantity:        p.FreeQuantity,
		StartDate:           p.StartDate,
		EndDate:             p.EndDate,
		CPACompliantDisplay: p.CPACompliantDisplay,
		RuleCount:           len(p.Rules),
		CreatedAt:           p.CreatedAt,
	}
	if !p.DiscountValue.IsZero() {
		resp.DiscountValue = p.DiscountValue.String()
	}
	return resp
}
