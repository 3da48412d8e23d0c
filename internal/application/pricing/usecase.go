// Package pricing orquesta el cálculo de precios al cliente: elegibilidad de
// promociones, precio efectivo, supersesión atómica del precio vigente y
// auditoría de cambios.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	domainpricing "github.com/jhoicas/pms-api/internal/domain/pricing"
	domainpromo "github.com/jhoicas/pms-api/internal/domain/promotion"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// UseCase motor de precios a nivel de aplicación.
type UseCase struct {
	variants   repository.VariantRepository
	promotions repository.PromotionRepository
	prices     repository.PriceRepository
	log        *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	variants repository.VariantRepository,
	promotions repository.PromotionRepository,
	prices repository.PriceRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{variants: variants, promotions: promotions, prices: prices, log: log}
}

// Quote resultado de cotizar una variante.
type Quote struct {
	VariantID          string
	BasePrice          decimal.Decimal // efectivo, excluye IVA
	DisplayPrice       decimal.Decimal // base + IVA, 2 decimales half-up
	AppliedPromotionID string          // vacío si ningún candidato aplicó
}

// PriceVariant cotiza una variante contra un conjunto de promociones
// candidatas en el instante now. Entre las elegibles gana la de menor precio
// efectivo. Una promoción con reglas malformadas se registra en el log y se
// excluye: nunca tumba el camino de pricing.
func (uc *UseCase) PriceVariant(ctx context.Context, variantID string, candidatePromotionIDs []string, now time.Time) (*Quote, error) {
	variant, err := uc.variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("cargar variante %s: %w", variantID, err)
	}
	current, err := uc.prices.GetCurrent(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("cargar precio vigente de %s: %w", variantID, err)
	}

	best := current.BasePrice
	applied := ""
	opts := domainpromo.EvalOptions{Now: now, RequireCompliance: variant.RestrictedCategory}

	for _, promoID := range candidatePromotionIDs {
		promo, err := uc.promotions.GetByID(ctx, promoID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.log.Warn().Str("promotion_id", promoID).Msg("promoción candidata no existe")
				continue
			}
			return nil, fmt.Errorf("cargar promoción %s: %w", promoID, err)
		}

		eligible, err := domainpromo.IsEligible(promo, variant, now, opts)
		if err != nil {
			// Regla malformada: promoción no evaluable, se excluye.
			uc.log.Error().Err(err).
				Str("promotion_id", promoID).
				Str("variant_id", variantID).
				Msg("promoción excluida por regla malformada")
			continue
		}
		if !eligible {
			continue
		}

		effective := domainpricing.EffectivePrice(promo, current.BasePrice)
		if effective.LessThan(best) {
			best = effective
			applied = promoID
		}
	}

	return &Quote{
		VariantID:          variantID,
		BasePrice:          best,
		DisplayPrice:       domainpricing.DisplayPrice(best, current.TaxClass),
		AppliedPromotionID: applied,
	}, nil
}

// ApplyPromotion materializa una promoción elegible como nuevo precio
// PROMOTIONAL de la variante, superseding el precio vigente de forma atómica
// (el viejo cierra con EffectiveTo=now y Current=false en la misma
// transacción) y dejando el registro PriceChange de auditoría.
func (uc *UseCase) ApplyPromotion(ctx context.Context, promotionID, variantID string, now time.Time) (*entity.Price, error) {
	promo, err := uc.promotions.GetByID(ctx, promotionID)
	if err != nil {
		return nil, fmt.Errorf("cargar promoción %s: %w", promotionID, err)
	}
	variant, err := uc.variants.GetByID(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("cargar variante %s: %w", variantID, err)
	}
	current, err := uc.prices.GetCurrent(ctx, variantID)
	if err != nil {
		return nil, fmt.Errorf("cargar precio vigente de %s: %w", variantID, err)
	}

	opts := domainpromo.EvalOptions{Now: now, RequireCompliance: variant.RestrictedCategory}
	eligible, err := domainpromo.IsEligible(promo, variant, now, opts)
	if err != nil {
		return nil, err
	}
	if !eligible {
		if variant.RestrictedCategory && !promo.IsCompliantWithRestrictions() {
			return nil, fmt.Errorf("%w: promoción %s sobre categoría restringida sin disclosure CPA",
				domain.ErrComplianceViolation, promotionID)
		}
		return nil, fmt.Errorf("%w: promoción %s no es elegible para la variante %s",
			domain.ErrInvalidInput, promotionID, variantID)
	}

	newPrice := &entity.Price{
		ID:            uuid.New().String(),
		VariantID:     variantID,
		BasePrice:     domainpricing.EffectivePrice(promo, current.BasePrice),
		Current:       true,
		TaxClass:      current.TaxClass,
		EffectiveFrom: now,
		PriceType:     entity.PriceTypePromotional,
		PriceSource:   fmt.Sprintf("PROMOTION-%s", promo.ID),
		CreatedAt:     now,
	}
	change := &entity.PriceChange{
		ID:          uuid.New().String(),
		PromotionID: promo.ID,
		OldPriceID:  current.ID,
		NewPriceID:  newPrice.ID,
		ChangedAt:   now,
		CreatedAt:   now,
	}

	if err := uc.prices.SwapCurrent(ctx, variantID, current.ID, newPrice, change); err != nil {
		return nil, fmt.Errorf("supersesión de precio de %s: %w", variantID, err)
	}

	uc.log.Info().
		Str("variant_id", variantID).
		Str("promotion_id", promo.ID).
		Str("old_price_id", current.ID).
		Str("new_price_id", newPrice.ID).
		Str("base_price", newPrice.BasePrice.String()).
		Msg("precio promocional aplicado")
	return newPrice, nil
}

// PriceHistory historial completo de precios de una variante, vigente primero.
func (uc *UseCase) PriceHistory(ctx context.Context, variantID string) ([]*entity.Price, error) {
	return uc.prices.ListByVariant(ctx, variantID)
}

// PriceChanges registros de auditoría de los precios que una promoción aplicó.
func (uc *UseCase) PriceChanges(ctx context.Context, promotionID string) ([]*entity.PriceChange, error) {
	return uc.prices.ListChangesByPromotion(ctx, promotionID)
}

// DisplayPrice precio a mostrar del precio vigente de una variante.
func (uc *UseCase) DisplayPrice(ctx context.Context, variantID string) (decimal.Decimal, error) {
	current, err := uc.prices.GetCurrent(ctx, variantID)
	if err != nil {
		return decimal.Zero, err
	}
	return current.DisplayPrice(), nil
}
