package printing

import (
	"context"

	appinvoicing "github.com/bewloop/quark-system/internal/application/invoicing"
)

// InvoicePrinter implements appinvoicing.InvoicePrinter
type InvoicePrinter struct {
	renderer PDFRenderer
	tmpl     *InvoiceTemplate
}

// NewInvoicePrinter creates a printer that labels invoices in lang
func NewInvoicePrinter(renderer PDFRenderer, lang string) (*InvoicePrinter, error) {
	tmpl, err := NewInvoiceTemplate(lang)
	if err != nil {
		return nil, err
	}
	return &InvoicePrinter{renderer: renderer, tmpl: tmpl}, nil
}

// Print renders doc to PDF bytes
func (p *InvoicePrinter) Print(ctx context.Context, doc *appinvoicing.InvoiceDocument) ([]byte, error) {
	html, err := p.tmpl.Render(doc)
	if err != nil {
		return nil, err
	}
	res, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      doc.Invoice.InvoiceNo,
		FooterHTML: p.tmpl.Footer(),
	})
	if err != nil {
		return nil, err
	}
	return res.PDFData, nil
}

var _ appinvoicing.InvoicePrinter = (*InvoicePrinter)(nil)
