package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// critical por debajo de esta cantidad la fila se resalta en rojo.
var critical = decimal.NewFromInt(5)

type bodyData struct {
	Items       []*entity.LowStockItem
	GeneratedAt string
}

var funcs = map[string]any{
	"critical": func(q decimal.Decimal) bool { return q.LessThan(critical) },
	"leadTime": func(days int) string {
		if days > 0 {
			return fmt.Sprintf("%d days", days)
		}
		return "N/A"
	},
	"plural": func(n int) string {
		if n == 1 {
			return ""
		}
		return "s"
	},
}

var htmlBody = htmltemplate.Must(htmltemplate.New("digest.html").Funcs(funcs).Parse(`<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
<div style="max-width: 900px; margin: 0 auto; background: white; padding: 30px; border-radius: 8px;">
{{- if not .Items}}
<h2 style="color: #10b981; margin-top: 0;">All Stock Levels Normal</h2>
<p>No items are currently below minimum stock thresholds.</p>
{{- else}}
<div style="background: #dc2626; color: white; padding: 20px; border-radius: 6px; margin-bottom: 24px;">
<h2 style="margin: 0 0 8px 0;">Low Stock Alert</h2>
<p style="margin: 0;">{{len .Items}} item{{plural (len .Items)}} below minimum stock threshold</p>
</div>
<p>The following items require attention and may need reordering:</p>
<table style="width: 100%; border-collapse: collapse; margin-bottom: 24px;">
<thead><tr><th align="left">SKU</th><th align="left">Product</th><th align="left">Location</th><th>Current Qty</th><th>Min Qty</th><th>Lead Time</th></tr></thead>
<tbody>
{{- range .Items}}
<tr style="border-bottom: 1px solid #e5e7eb;">
<td style="padding: 12px 8px; font-weight: 600;">{{.SKU}}</td>
<td style="padding: 12px 8px;">{{.ProductName}}</td>
<td style="padding: 12px 8px;">{{.LocationName}} / {{.BinCode}}</td>
<td style="padding: 12px 8px; text-align: center;"><span style="background: {{if critical .Qty}}#fca5a5{{else}}#fcd34d{{end}}; padding: 4px 12px; border-radius: 4px;">{{.Qty}}</span></td>
<td style="padding: 12px 8px; text-align: center;">{{.MinQty}}</td>
<td style="padding: 12px 8px; text-align: center;">{{leadTime .LeadTimeDays}}</td>
</tr>
{{- end}}
</tbody>
</table>
<p><strong>Recommended Action:</strong> Review these items and create purchase orders for products with longer lead times.</p>
{{- end}}
<hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
<p style="color: #8b95a8; font-size: 12px;">This is an automated daily digest from OurHouse Inventory Management System.<br>Generated on {{.GeneratedAt}}</p>
</div>
</body>
</html>
`))

var textBody = template.Must(template.New("digest.txt").Funcs(funcs).Parse(`{{if not .Items -}}
OurHouse Inventory - Daily Stock Report
========================================

All Stock Levels Normal

No items are currently below minimum stock thresholds.
{{- else -}}
OurHouse Inventory - Low Stock Alert
=====================================

{{len .Items}} item(s) below minimum stock threshold:
{{range .Items}}
{{.SKU}} - {{.ProductName}}
  Location: {{.LocationName}} / {{.BinCode}}
  Current: {{.Qty}} | Minimum: {{.MinQty}} | Lead Time: {{leadTime .LeadTimeDays}}
{{end}}
--
Recommended Action: Review these items and create purchase orders for products with longer lead times.
{{- end}}

Generated on {{.GeneratedAt}}
This is an automated daily digest from OurHouse Inventory Management System.
`))

func subject(items int) string {
	if items == 0 {
		return "OurHouse Daily Inventory Report - All Normal"
	}
	return fmt.Sprintf("OurHouse Low Stock Alert - %d Item(s) Need Attention", items)
}

func renderBodies(items []*entity.LowStockItem, at time.Time) (text, html string, err error) {
	data := bodyData{Items: items, GeneratedAt: at.Format("Monday, January 2, 2006 15:04 MST")}
	var tb, hb bytes.Buffer
	if err := textBody.Execute(&tb, data); err != nil {
		return "", "", fmt.Errorf("render text body: %w", err)
	}
	if err := htmlBody.Execute(&hb, data); err != nil {
		return "", "", fmt.Errorf("render html body: %w", err)
	}
	return tb.String(), hb.String(), nil
}
