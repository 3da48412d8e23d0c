// Package pdf implementa la generación de la lista de precios en PDF para
// exhibición en punto de venta. Los precios se muestran con IVA incluido,
// como exige la normativa de protección al consumidor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Precio base | IVA | Precio venta    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Leyenda "Price includes 15% VAT"                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	apppricing "github.com/jhoicas/pms-api/internal/application/pricing"
	"github.com/jhoicas/pms-api/internal/domain/entity"
	"github.com/jhoicas/pms-api/pkg/currency"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PriceListGenerator implementa pricing.PriceListGenerator usando Maroto v2.
type PriceListGenerator struct {
	fmt *currency.Formatter
}

// NewPriceListGenerator construye el generador.
func NewPriceListGenerator(fmt *currency.Formatter) *PriceListGenerator {
	return &PriceListGenerator{fmt: fmt}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *PriceListGenerator) Generate(_ context.Context, title string, items []apppricing.PriceListItem, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de Precios", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(title, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, item := range items {
		m.AddRows(g.itemRow(item))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y fecha de generación (der).
func (g *PriceListGenerator) headerRow(title string, generatedAt time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Precios de venta con IVA incluido", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Fecha: "+generatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de precios.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Precio base", 2, align.Right),
		h("IVA", 2, align.Right),
		h("Precio venta", 2, align.Right),
	)
}

// itemRow: una fila por variante; si hay promoción se anota bajo el nombre.
func (g *PriceListGenerator) itemRow(item apppricing.PriceListItem) core.Row {
	height := 7.0
	nameCol := col.New(4).Add(text.New(
		item.Name,
		props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
	))
	if item.Promotion != "" {
		height = 11
		nameCol = col.New(4).Add(
			text.New(item.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1}),
			text.New("Promo: "+item.Promotion, props.Text{
				Size: 7, Align: align.Left, Top: 6, Left: 1, Color: colorGray,
			}),
		)
	}
	return row.New(height).Add(
		col.New(2).Add(text.New(
			item.SKU,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		nameCol,
		col.New(2).Add(text.New(
			g.fmt.FormatDefault(item.BasePrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			g.fmt.FormatDefault(item.TaxAmount),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(2).Add(text.New(
			g.fmt.FormatDefault(item.DisplayPrice),
			props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

// footerRow: leyenda obligatoria de IVA incluido.
func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(entity.VATDisclosure, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center,
			Color: colorPrimary, Top: 2,
		}),
	))
}
