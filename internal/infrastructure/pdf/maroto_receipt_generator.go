// Package pdf implementa la generación del comprobante de circulación
// (préstamo o devolución) que firma el responsable al retirar material.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Laboratorio + tipo de transacción │ N° + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESPONSABLE: Nombre / Teléfono / Notas                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Código | Unidad | Cant | Pendiente            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id del formulario + línea de firma        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/labstock-api/internal/application/dto"
	appinventory "github.com/jhoicas/labstock-api/internal/application/inventory"
	"github.com/jhoicas/labstock-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 94, Blue: 62}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appinventory.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// MarotoReceiptGenerator implementa inventory.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	labName string
}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(labName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{labName: labName}
}

// GenerateCirculationReceipt genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateCirculationReceipt(_ context.Context, detail *dto.CirculationFormDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de circulación", true).
		WithAuthor(g.labName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(detail))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(responsibleRow(detail))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(detail.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(detail))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReceiptGenerator) headerRow(detail *dto.CirculationFormDetail) core.Row {
	kind := "COMPROBANTE DE PRÉSTAMO"
	if detail.Status == entity.CirculationReturn {
		kind = "COMPROBANTE DE DEVOLUCIÓN"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.labName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(kind, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("N° "+detail.ID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 3,
			}),
			text.New("Fecha: "+detail.RecordedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func responsibleRow(detail *dto.CirculationFormDetail) core.Row {
	notes := detail.Notes
	if notes == "" {
		notes = "-"
	}
	return row.New(14).Add(
		col.New(5).Add(
			text.New("Responsable", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}),
			text.New(detail.Name, props.Text{Size: 10, Top: 5}),
		),
		col.New(3).Add(
			text.New("Teléfono", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}),
			text.New(detail.Phone, props.Text{Size: 10, Top: 5}),
		),
		col.New(4).Add(
			text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray}),
			text.New(notes, props.Text{Size: 9, Top: 5}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(label string, width int, al align.Type) core.Col {
		return col.New(width).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: al, Color: colorPrimary,
		}))
	}
	return row.New(7).Add(
		header("Ítem", 4, align.Left),
		header("Código", 2, align.Left),
		header("Unidad", 2, align.Left),
		header("Cantidad", 2, align.Right),
		header("Pendiente", 2, align.Right),
	)
}

func tableLineRows(lines []dto.CirculationLineDetail) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		pending := "-"
		if l.QtyNotYetReturned != nil {
			pending = fmt.Sprintf("%d", *l.QtyNotYetReturned)
		}
		out = append(out, row.New(6).Add(
			col.New(4).Add(text.New(l.ItemName, props.Text{Size: 9})),
			col.New(2).Add(text.New(l.ItemCode, props.Text{Size: 9})),
			col.New(2).Add(text.New(l.Unit, props.Text{Size: 9})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", l.QtyRecorded), props.Text{Size: 9, Align: align.Right})),
			col.New(2).Add(text.New(pending, props.Text{Size: 9, Align: align.Right})),
		))
	}
	return out
}

func footerRow(detail *dto.CirculationFormDetail) core.Row {
	status := ""
	if detail.FullyReturned != nil {
		if *detail.FullyReturned {
			status = "Préstamo completamente devuelto"
		} else {
			status = "Préstamo con material pendiente de devolución"
		}
	}
	return row.New(28).Add(
		col.New(3).Add(
			code.NewQr(detail.ID, props.Rect{Percent: 90}),
		),
		col.New(5).Add(
			text.New(status, props.Text{Size: 8, Color: colorGray, Top: 10}),
		),
		col.New(4).Add(
			text.New("_______________________", props.Text{Size: 10, Align: align.Right, Top: 14}),
			text.New("Firma del responsable", props.Text{Size: 8, Align: align.Right, Top: 20, Color: colorGray}),
		),
	)
}
