// Package printing renders invoices to PDF.
//
// An InvoiceTemplate turns an invoicing.InvoiceDocument into HTML with
// localized labels and amounts, and a PDFRenderer (headless Chrome through
// chromedp) prints that HTML to an A4 PDF:
//
//	renderer, err := printing.NewChromedpRenderer(printing.ChromedpConfig{
//	    RemoteURL: "ws://chrome:9222",
//	})
//	if err != nil {
//	    return err
//	}
//	printer, err := printing.NewInvoicePrinter(renderer, "th")
//	pdf, err := printer.Print(ctx, doc)
package printing
