package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	appinvoicing "github.com/bewloop/quark-system/internal/application/invoicing"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// label keys; the English text doubles as the key
const (
	labelInvoice       = "Invoice / Receipt"
	labelInvoiceNo     = "Invoice No."
	labelReceiptNo     = "Receipt No."
	labelDate          = "Date"
	labelDueDate       = "Due Date"
	labelCreditDays    = "Credit (days)"
	labelSeller        = "Seller"
	labelBuyer         = "Customer"
	labelTaxID         = "Tax ID"
	labelItemNo        = "No."
	labelDescription   = "Description"
	labelQty           = "Qty"
	labelUnitPrice     = "Unit Price"
	labelAmount        = "Amount"
	labelTotal         = "Total"
	labelDiscount      = "Discount"
	labelAfterDiscount = "After Discount"
	labelDeposit       = "Deposit"
	labelNet           = "Net"
	labelVAT           = "VAT"
	labelGrandTotal    = "Grand Total"
	labelNote          = "Note"
	labelPage          = "Page"
)

var thaiLabels = map[string]string{
	labelInvoice:       "ใบแจ้งหนี้ / ใบเสร็จรับเงิน",
	labelInvoiceNo:     "เลขที่ใบแจ้งหนี้",
	labelReceiptNo:     "เลขที่ใบเสร็จ",
	labelDate:          "วันที่",
	labelDueDate:       "วันครบกำหนด",
	labelCreditDays:    "เครดิต (วัน)",
	labelSeller:        "ผู้ขาย",
	labelBuyer:         "ลูกค้า",
	labelTaxID:         "เลขประจำตัวผู้เสียภาษี",
	labelItemNo:        "ลำดับ",
	labelDescription:   "รายการ",
	labelQty:           "จำนวน",
	labelUnitPrice:     "ราคาต่อหน่วย",
	labelAmount:        "จำนวนเงิน",
	labelTotal:         "รวมเงิน",
	labelDiscount:      "ส่วนลด",
	labelAfterDiscount: "ยอดหลังหักส่วนลด",
	labelDeposit:       "หักมัดจำ",
	labelNet:           "ยอดสุทธิ",
	labelVAT:           "ภาษีมูลค่าเพิ่ม",
	labelGrandTotal:    "ยอดรวมทั้งสิ้น",
	labelNote:          "หมายเหตุ",
	labelPage:          "หน้า",
}

var invoiceCatalog = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, th := range thaiLabels {
		_ = b.SetString(language.Thai, key, th)
		_ = b.SetString(language.English, key, key)
	}
	return b
}

// InvoiceTemplate renders invoice documents to HTML in one language
type InvoiceTemplate struct {
	tmpl    *template.Template
	printer *message.Printer
	tag     language.Tag
}

// NewInvoiceTemplate creates a template for lang ("th" or "en").
// Unknown languages fall back to English.
func NewInvoiceTemplate(lang string) (*InvoiceTemplate, error) {
	tag := language.English
	if strings.EqualFold(lang, "th") {
		tag = language.Thai
	}
	t := &InvoiceTemplate{
		printer: message.NewPrinter(tag, message.Catalog(invoiceCatalog)),
		tag:     tag,
	}
	tmpl, err := template.New("invoice").Funcs(template.FuncMap{
		"t":     t.label,
		"money": t.money,
		"qty":   t.qty,
		"title": cases.Title(tag).String,
	}).Parse(invoiceHTML)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse invoice template", err)
	}
	t.tmpl = tmpl
	return t, nil
}

// Render executes the template for doc
func (t *InvoiceTemplate) Render(doc *appinvoicing.InvoiceDocument) (string, error) {
	if doc == nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "invoice document is nil", nil)
	}
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, doc); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render invoice template", err)
	}
	return buf.String(), nil
}

// Footer is the per-page footer with page numbers
func (t *InvoiceTemplate) Footer() string {
	return fmt.Sprintf(`<div style="font-size:8px;width:100%%;text-align:center;">%s <span class="pageNumber"></span>/<span class="totalPages"></span></div>`,
		template.HTMLEscapeString(t.label(labelPage)))
}

// label looks key up in the catalog. Keys carry no format verbs.
func (t *InvoiceTemplate) label(key string) string {
	return t.printer.Sprintf(key)
}

// money formats an amount with grouping and two decimals, e.g. 6,250.00
func (t *InvoiceTemplate) money(d decimal.Decimal) string {
	return t.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// qty drops trailing zeros, e.g. 2 or 1.5
func (t *InvoiceTemplate) qty(d decimal.Decimal) string {
	return t.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

const invoiceHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Invoice.InvoiceNo}}</title>
<style>
body { font-family: "Sarabun", "Noto Sans Thai", sans-serif; font-size: 12px; }
h1 { font-size: 18px; text-align: center; margin: 0 0 12px; }
table { width: 100%; border-collapse: collapse; }
.parties td { vertical-align: top; width: 50%; padding: 4px; }
.lines th, .lines td { border: 1px solid #444; padding: 4px; }
.num { text-align: right; }
.totals td { padding: 2px 4px; }
.grand { font-weight: bold; }
</style>
</head>
<body>
<h1>{{t "Invoice / Receipt"}}</h1>
<table class="parties">
<tr>
<td>
<strong>{{t "Seller"}}</strong><br>
{{.Seller.Name}}<br>
{{.Seller.Address}}<br>
{{if .Seller.TaxID}}{{t "Tax ID"}}: {{.Seller.TaxID}}{{end}}
</td>
<td>
{{t "Invoice No."}}: {{.Invoice.InvoiceNo}}<br>
{{t "Receipt No."}}: {{.Invoice.ReceiptNo}}<br>
{{t "Date"}}: {{.Invoice.InvoiceDate}}<br>
{{t "Credit (days)"}}: {{.Invoice.CreditDays}}<br>
{{t "Due Date"}}: {{.Invoice.DueDate}}
</td>
</tr>
<tr>
<td colspan="2">
<strong>{{t "Customer"}}</strong> {{.Invoice.Customer.Code}}<br>
{{title .Buyer.Name}}<br>
{{.Buyer.Address}}<br>
{{if .Buyer.TaxID}}{{t "Tax ID"}}: {{.Buyer.TaxID}}{{end}}
</td>
</tr>
</table>
<table class="lines">
<thead>
<tr><th>{{t "No."}}</th><th>{{t "Description"}}</th><th>{{t "Qty"}}</th><th>{{t "Unit Price"}}</th><th>{{t "Amount"}}</th></tr>
</thead>
<tbody>
{{range .Invoice.Items}}<tr><td class="num">{{.ItemNo}}</td><td>{{.Description}}</td><td class="num">{{qty .Qty}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money .Total}}</td></tr>
{{end}}</tbody>
</table>
<table class="totals">
<tr><td class="num">{{t "Total"}}</td><td class="num">{{money .Invoice.Total}}</td></tr>
<tr><td class="num">{{t "Discount"}}</td><td class="num">{{money .Invoice.Discount}}</td></tr>
<tr><td class="num">{{t "After Discount"}}</td><td class="num">{{money .Invoice.AfterDiscount}}</td></tr>
<tr><td class="num">{{t "Deposit"}}</td><td class="num">{{money .Invoice.Deposit}}</td></tr>
<tr><td class="num">{{t "Net"}}</td><td class="num">{{money .Invoice.Net}}</td></tr>
<tr><td class="num">{{t "VAT"}} 7%</td><td class="num">{{money .Invoice.VAT}}</td></tr>
<tr class="grand"><td class="num">{{t "Grand Total"}}</td><td class="num">{{money .Invoice.GrandTotal}}</td></tr>
</table>
{{if .Invoice.Note}}<p>{{t "Note"}}: {{.Invoice.Note}}</p>{{end}}
</body>
</html>`
