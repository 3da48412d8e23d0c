package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pms-api/internal/domain"
	"github.com/jhoicas/pms-api/internal/domain/repository"
	"github.com/jhoicas/pms-api/pkg/logger"
)

// PriceListItem línea de la lista de precios para exhibición: precio base,
// impuesto y precio de venta (IVA incluido) ya calculados.
type PriceListItem struct {
	SKU          string
	Name         string
	BasePrice    decimal.Decimal
	TaxAmount    decimal.Decimal
	DisplayPrice decimal.Decimal
	Promotion    string // nombre de la promoción que originó el precio, si aplica
}

// PriceListGenerator puerto de generación del documento (PDF en infraestructura).
type PriceListGenerator interface {
	Generate(ctx context.Context, title string, items []PriceListItem, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase arma la lista de precios vigentes de todo el catálogo.
type ReportUseCase struct {
	products repository.ProductRepository
	prices   repository.PriceRepository
	gen      PriceListGenerator
	log      *logger.Logger
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	products repository.ProductRepository,
	prices repository.PriceRepository,
	gen PriceListGenerator,
	log *logger.Logger,
) *ReportUseCase {
	return &ReportUseCase{products: products, prices: prices, gen: gen, log: log}
}

// maxCatalogPage tope de productos por reporte.
const maxCatalogPage = 500

// BuildPriceList genera el PDF con los precios vigentes (IVA incluido) de
// todas las variantes del catálogo. Una variante sin precio vigente se omite
// con un warning en el log.
func (uc *ReportUseCase) BuildPriceList(ctx context.Context, title string) ([]byte, error) {
	now := time.Now()
	products, err := uc.products.List(ctx, maxCatalogPage, 0)
	if err != nil {
		return nil, fmt.Errorf("listar catálogo: %w", err)
	}

	var items []PriceListItem
	for _, p := range products {
		full, err := uc.products.GetByID(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		for i := range full.Variants {
			v := &full.Variants[i]
			price, err := uc.prices.GetCurrent(ctx, v.ID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					uc.log.Warn().Str("variant_id", v.ID).Str("sku", v.SKU).
						Msg("variante sin precio vigente, omitida del reporte")
					continue
				}
				return nil, err
			}
			display := price.DisplayPrice()
			items = append(items, PriceListItem{
				SKU:          v.SKU,
				Name:         full.Name + " " + v.Name,
				BasePrice:    price.BasePrice,
				TaxAmount:    display.Sub(price.BasePrice),
				DisplayPrice: display,
				Promotion:    promotionLabel(price.PriceSource),
			})
		}
	}

	return uc.gen.Generate(ctx, title, items, now)
}

// promotionLabel extrae un rótulo corto de PriceSource ("PROMOTION-<id>").
func promotionLabel(source string) string {
	const prefix = "PROMOTION-"
	if len(source) > len(prefix) && source[:len(prefix)] == prefix {
		return source[len(prefix):]
	}
	return ""
}
