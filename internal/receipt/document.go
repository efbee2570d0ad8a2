package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/glamournym/nymshop/internal/cart"
	"github.com/glamournym/nymshop/internal/catalog"
	"github.com/glamournym/nymshop/internal/currency"
	"github.com/glamournym/nymshop/internal/pricing"
)

// The document is fully self-contained: inline styles, no scripts, and a
// single external image (the QR code keyed by receipt number), so a stored
// copy prints identically to the one shown at checkout.

type documentData struct {
	Shop   catalog.ShopInfo
	Number string
	Date   string
	Time   string
	Lines  []documentLine

	Subtotal     string
	HasDiscount  bool
	Discount     string
	FreeShipping bool
	Shipping     string
	Total        string

	QRCodeURL string
	Year      int
}

type documentLine struct {
	Index     int
	Name      string
	Size      string
	UnitPrice string
	Quantity  int
	Subtotal  string
}

func renderDocument(shop catalog.ShopInfo, number string, createdAt time.Time, items []cart.LineItem, summary pricing.Summary) (string, error) {
	lines := make([]documentLine, 0, len(items))
	for i, item := range items {
		size := item.Size
		if size == "" {
			size = "N/A"
		}
		lineSubtotal := int64(item.UnitPrice) * int64(item.Quantity)
		lines = append(lines, documentLine{
			Index:     i + 1,
			Name:      item.Name,
			Size:      size,
			UnitPrice: currency.FormatInt(int64(item.UnitPrice)),
			Quantity:  item.Quantity,
			Subtotal:  currency.FormatInt(lineSubtotal),
		})
	}

	data := documentData{
		Shop:         shop,
		Number:       number,
		Date:         createdAt.Format("02/01/2006"),
		Time:         createdAt.Format("15:04:05"),
		Lines:        lines,
		Subtotal:     currency.Format(summary.Subtotal),
		HasDiscount:  summary.Discount.IsPositive(),
		Discount:     currency.Format(summary.Discount),
		FreeShipping: summary.Shipping.IsZero(),
		Shipping:     currency.Format(summary.Shipping),
		Total:        currency.Format(summary.Total),
		QRCodeURL:    qrCodeURL(number),
		Year:         createdAt.Year(),
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute receipt template: %w", err)
	}
	return buf.String(), nil
}

func qrCodeURL(number string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=120x120&data=" + url.QueryEscape(number)
}

var documentTemplate = template.Must(template.New("receipt").Parse(documentHTML))

const documentHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Factura {{.Number}}</title>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f5f5f5; color: #333; padding: 20px; }
.contenedor { max-width: 800px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 8px; }
.encabezado { display: flex; justify-content: space-between; align-items: flex-start; border-bottom: 3px solid #2c3e50; padding-bottom: 20px; margin-bottom: 20px; }
.empresa h1 { font-size: 24px; color: #2c3e50; margin-bottom: 5px; }
.empresa p { font-size: 12px; color: #7f8c8d; line-height: 1.5; }
.numero { text-align: right; }
.numero .etiqueta { font-size: 11px; color: #7f8c8d; text-transform: uppercase; }
.numero .valor { font-size: 18px; font-weight: bold; color: #2c3e50; margin-top: 5px; }
.fecha-hora { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; padding: 15px; background-color: #ecf0f1; border-radius: 4px; margin-bottom: 20px; font-size: 12px; }
table { width: 100%; border-collapse: collapse; margin: 20px 0; font-size: 13px; }
thead { background-color: #2c3e50; color: white; }
th { padding: 12px; text-align: left; border: 1px solid #34495e; }
td { padding: 10px 12px; border: 1px solid #ecf0f1; }
tbody tr:nth-child(even) { background-color: #f9f9f9; }
.num { width: 5%; text-align: center; }
.talla { width: 10%; text-align: center; }
.precio, .subtotal { width: 15%; text-align: right; }
.cantidad { width: 10%; text-align: center; }
.resumen { margin-top: 30px; padding: 20px; background-color: #f9f9f9; border-left: 4px solid #2c3e50; border-radius: 4px; }
.fila { display: flex; justify-content: space-between; padding: 8px 0; font-size: 13px; }
.fila.descuento span:last-child { color: #27ae60; font-weight: 600; }
.fila.total { border-top: 2px solid #2c3e50; border-bottom: 2px solid #2c3e50; padding: 12px 0; margin: 12px 0; font-size: 16px; font-weight: bold; color: #2c3e50; }
.qr { text-align: center; margin: 30px 0; padding: 20px; background-color: #f9f9f9; border-radius: 4px; font-size: 10px; color: #7f8c8d; }
.qr img { width: 120px; height: 120px; border: 1px solid #ecf0f1; }
.pie { margin-top: 30px; padding-top: 20px; border-top: 1px solid #ecf0f1; text-align: center; font-size: 11px; color: #7f8c8d; line-height: 1.6; }
@media print {
  body { background-color: white; padding: 0; }
  .contenedor { max-width: 100%; padding: 0; margin: 0; }
  @page { margin: 1cm; }
}
</style>
</head>
<body>
<div class="contenedor">
  <div class="encabezado">
    <div class="empresa">
      <h1>{{.Shop.Name}}</h1>
      <p>
        {{.Shop.Tagline}}<br>
        {{.Shop.Address}}<br>
        Teléfono: {{.Shop.Phone}}<br>
        Email: {{.Shop.Email}}<br>
        NIT: {{.Shop.TaxID}}
      </p>
    </div>
    <div class="numero">
      <div class="etiqueta">Factura Electrónica</div>
      <div class="valor">{{.Number}}</div>
    </div>
  </div>

  <div class="fecha-hora">
    <div><strong>Fecha:</strong> {{.Date}}</div>
    <div><strong>Hora:</strong> {{.Time}}</div>
  </div>

  <table>
    <thead>
      <tr>
        <th class="num">#</th>
        <th>Producto</th>
        <th class="talla">Talla</th>
        <th class="precio">Precio</th>
        <th class="cantidad">Cant.</th>
        <th class="subtotal">Subtotal</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td class="num">{{.Index}}</td>
        <td>{{.Name}}</td>
        <td class="talla">{{.Size}}</td>
        <td class="precio">{{.UnitPrice}}</td>
        <td class="cantidad">{{.Quantity}}</td>
        <td class="subtotal">{{.Subtotal}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="resumen">
    <div class="fila">
      <span>Subtotal:</span>
      <span>{{.Subtotal}}</span>
    </div>
    {{if .HasDiscount}}
    <div class="fila descuento">
      <span>Descuento:</span>
      <span>-{{.Discount}}</span>
    </div>
    {{end}}
    <div class="fila">
      <span>Envío:</span>
      <span>{{if .FreeShipping}}GRATIS{{else}}{{.Shipping}}{{end}}</span>
    </div>
    <div class="fila total">
      <span>TOTAL A PAGAR:</span>
      <span>{{.Total}}</span>
    </div>
  </div>

  <div class="qr">
    <p>Código QR de la Factura</p>
    <img src="{{.QRCodeURL}}" alt="Código QR">
    <p>{{.Number}}</p>
  </div>

  <div class="pie">
    <p>
      <strong>¡Gracias por tu compra!</strong><br>
      Esta es una factura electrónica válida para propósitos de contabilidad.<br>
      Conserva este documento como comprobante de pago.<br>
      &copy; {{.Year}} {{.Shop.Name}}. Todos los derechos reservados.
    </p>
  </div>
</div>
</body>
</html>
`
