// Package pdf genera el comprobante de salida de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: COMPROBANTE DE SALIDA  │  N° + Fecha de emisión     │
//	│  SOLICITUD: motivo / solicitante / referencia                │
//	│  TABLA: SKU | Ítem | Pedida | Aprobada | Rechazada | Entregada│
//	│  DESPACHOS: Bodega | Ítem | Cantidad | Ejecutó | Fecha        │
//	│  FOOTER: QR con el número de la solicitud + firmas           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

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

	"github.com/jhoicas/Salidas-api/internal/application/stockout"
)

var _ stockout.VoucherRenderer = (*VoucherGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// VoucherGenerator implementa stockout.VoucherRenderer con Maroto v2.
type VoucherGenerator struct {
	company string
}

// NewVoucherGenerator construye el generador; company aparece como autor del documento.
func NewVoucherGenerator(company string) *VoucherGenerator {
	return &VoucherGenerator{company: company}
}

// RenderVoucher genera el PDF y devuelve sus bytes.
func (g *VoucherGenerator) RenderVoucher(_ context.Context, v stockout.Voucher) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de salida "+v.Number, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requestRow(v))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("LÍNEAS"))
	m.AddRows(linesHeaderRow())
	m.AddRows(linesRows(v.Lines)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("DESPACHOS EJECUTADOS"))
	m.AddRows(dispatchHeaderRow())
	m.AddRows(dispatchRows(v.Dispatches)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(v))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(company string, v stockout.Voucher) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Inventario"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("COMPROBANTE DE SALIDA DE INVENTARIO", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(v.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Emitido: "+v.IssuedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Estado: "+v.Status, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func requestRow(v stockout.Voucher) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("SOLICITUD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Motivo: %s   |   Solicitante: %s   |   Creada: %s",
				v.Reason, v.RequesterID, v.CreatedAt.Format(dateLayout),
			), props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("Referencia: %s   |   Notas: %s",
				nonEmpty(v.ExternalRef, "-"), nonEmpty(v.Notes, "-"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func cell(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func linesHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("SKU", 2, align.Left),
		headerCol("Ítem", 4, align.Left),
		headerCol("Pedida", 1, align.Right),
		headerCol("Aprobada", 2, align.Right),
		headerCol("Rechazada", 2, align.Right),
		headerCol("Entregada", 1, align.Right),
	)
}

func linesRows(lines []stockout.VoucherLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		name := l.ItemName
		if l.Unit != "" {
			name += " (" + l.Unit + ")"
		}
		rows = append(rows, row.New(6).Add(
			cell(nonEmpty(l.SKU, "-"), 2, align.Left),
			cell(name, 4, align.Left),
			cell(qty(l.Requested), 1, align.Right),
			cell(qty(l.Approved), 2, align.Right),
			cell(qty(l.Rejected), 2, align.Right),
			cell(qty(l.Executed), 1, align.Right),
		))
	}
	return rows
}

func dispatchHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Bodega", 3, align.Left),
		headerCol("Ítem", 4, align.Left),
		headerCol("Cantidad", 1, align.Right),
		headerCol("Ejecutó", 2, align.Left),
		headerCol("Fecha", 2, align.Right),
	)
}

func dispatchRows(dispatches []stockout.VoucherDispatch) []core.Row {
	if len(dispatches) == 0 {
		return []core.Row{row.New(6).Add(cell("Sin despachos ejecutados", 12, align.Center))}
	}
	rows := make([]core.Row, 0, len(dispatches))
	for _, d := range dispatches {
		rows = append(rows, row.New(6).Add(
			cell(d.WarehouseName, 3, align.Left),
			cell(d.ItemName, 4, align.Left),
			cell(qty(d.Quantity), 1, align.Right),
			cell(d.CompletedBy, 2, align.Left),
			cell(d.CompletedAt.Format(dateLayout), 2, align.Right),
		))
	}
	return rows
}

// footerRow: QR con número e ID de la solicitud y espacio de firmas.
func footerRow(v stockout.Voucher) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(v.Number+"|"+v.RequestID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Entrega: ______________________", props.Text{Size: 9, Top: 10, Left: 5}),
			text.New("Recibe:  ______________________", props.Text{Size: 9, Top: 22, Left: 5}),
			text.New("Escanee el código para consultar la solicitud en el sistema.", props.Text{
				Size: 7, Top: 33, Left: 5, Color: colorGray,
			}),
		),
	)
}

func qty(n int64) string {
	return formatThousands(strconv.FormatInt(n, 10))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles en un entero sin signo.
// Ej: "25000" → "25.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
