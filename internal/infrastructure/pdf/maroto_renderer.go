// Package pdf genera la versión imprimible de cotizaciones, facturas y recibos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Sucursal + ubicación │  Tipo + N° + Fecha + Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + contacto + email                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Total                  │
//	│         (recibos: Factura | Método de pago | Monto)          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto 10% / TOTAL                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR + notas                                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/FarmHub-api/internal/application/finance"
	domainfinance "github.com/jhoicas/FarmHub-api/internal/domain/finance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var titles = map[string]string{
	domainfinance.KindQuotation: "COTIZACIÓN",
	domainfinance.KindInvoice:   "FACTURA",
	domainfinance.KindReceipt:   "RECIBO DE PAGO",
}

// ── Renderer ──────────────────────────────────────────────────────────────────

var _ finance.DocumentRenderer = (*MarotoRenderer)(nil)

// MarotoRenderer implementa finance.DocumentRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoRenderer) Render(ctx context.Context, data finance.PrintData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	title, ok := titles[data.Kind]
	if !ok {
		return nil, fmt.Errorf("pdf: tipo de documento desconocido %q", data.Kind)
	}
	author := "FarmHub"
	if data.Branch != nil && data.Branch.Name != "" {
		author = data.Branch.Name
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title+" "+data.Number, true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(title, author, data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if data.Kind == domainfinance.KindReceipt {
		m.AddRows(paymentRows(data)...)
	} else {
		m.AddRows(tableHeaderRow())
		m.AddRows(tableDetailRows(data)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(totalsRow(data))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(data)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: sucursal (izq) y tipo + número + fechas (der).
func headerRow(title, branchName string, data finance.PrintData) core.Row {
	location := ""
	if data.Branch != nil {
		location = data.Branch.Location
	}
	dates := "Fecha: " + data.IssuedAt.Format("02/01/2006")
	if !data.DueDate.IsZero() {
		label := "Vence"
		if data.Kind == domainfinance.KindQuotation {
			label = "Válida hasta"
		}
		dates += "   " + label + ": " + data.DueDate.Format("02/01/2006")
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(branchName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(location, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(data.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(dates, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Estado: "+strings.ToUpper(data.Status), props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(data finance.PrintData) core.Row {
	name, contact, email := "—", "—", "—"
	if c := data.Customer; c != nil {
		name = nonEmpty(c.Name, name)
		contact = nonEmpty(c.Contact, contact)
		email = nonEmpty(c.Email, email)
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Contacto: %s   |   Email: %s", contact, email),
				props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea del documento.
func tableDetailRows(data finance.PrintData) []core.Row {
	result := make([]core.Row, 0, len(data.Items))
	for _, it := range data.Items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", it.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(it.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(data finance.PrintData) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1, Top: 12,
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 0),
			label(fmt.Sprintf("Impuesto (%s%%):", domainfinance.TaxRate.Shift(2).String()), 6),
			text.New("TOTAL:", grand),
		),
		col.New(3).Add(
			value("$"+formatMoney(data.Subtotal), 0),
			value("$"+formatMoney(data.Tax), 6),
			text.New("$"+formatMoney(data.Total), grand),
		),
	)
}

// paymentRows: detalle del pago de un recibo.
func paymentRows(data finance.PrintData) []core.Row {
	cell := func(label, value string, size int) core.Col {
		return col.New(size).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 6}),
		)
	}
	return []core.Row{
		row.New(14).Add(
			cell("FACTURA", nonEmpty(data.Reference, "—"), 4),
			cell("MÉTODO DE PAGO", nonEmpty(data.PaymentMethod, "—"), 4),
			col.New(4).Add(
				text.New("MONTO RECIBIDO", props.Text{
					Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
				}),
				text.New("$"+formatMoney(data.Total), props.Text{
					Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
				}),
			),
		),
	}
}

// footerRows: QR con el payload del documento + notas.
func footerRows(data finance.PrintData) []core.Row {
	var rows []core.Row
	if data.QRData != "" {
		rows = append(rows, row.New(45).Add(
			col.New(4).Add(code.NewQr(data.QRData, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para verificar\neste documento.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
			),
		))
	}
	if data.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas: "+data.Notes, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New("Generado por FarmHub.", props.Text{Size: 6.5, Color: colorGray, Top: 2, Align: align.Center}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney dos decimales con separador de miles.
// Ej: 27500 → "27,500.00", -1234.5 → "-1,234.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
