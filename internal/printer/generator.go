package printer

import (
	"bytes"
	"fmt"

	"invoicing/internal/model"

	"github.com/jung-kurt/gofpdf"
)

// Table column widths in mm (sum = 190, the printable width at 10mm margins).
var colWidths = [7]float64{10, 80, 22, 18, 15, 20, 25}

var colTitles = [7]string{"#", "Description", "HSN", "Qty", "Unit", "Rate", "Amount"}

// Generate renders the invoice to an A4 PDF, split across pages by Paginate.
func Generate(inv *model.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, MarginTop, 10)
	pdf.SetAutoPageBreak(false, 0)

	descriptions := make([]string, 0, len(inv.Items))
	for _, item := range inv.Items {
		descriptions = append(descriptions, item.Description)
	}
	pages := Paginate(descriptions)

	for _, page := range pages {
		pdf.AddPage()
		drawHeader(pdf, inv, page)
		drawTableHead(pdf)

		for i := page.Start; i < page.End; i++ {
			drawRow(pdf, &inv.Items[i])
		}

		if page.ShowTotals {
			drawTotals(pdf, inv)
		}
		if page.ShowWords {
			drawWords(pdf, inv)
		}
		if page.ShowFooter {
			drawFooter(pdf, inv)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gofpdf.Fpdf, inv *model.Invoice, page Page) {
	top := MarginTop

	pdf.SetFont("Arial", "B", 14)
	pdf.SetXY(10, top)
	pdf.CellFormat(130, 8, "TAX INVOICE", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(60, 8, fmt.Sprintf("Page %d of %d", page.Number, page.TotalPages), "", 0, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 11)
	pdf.SetXY(10, top+10)
	pdf.CellFormat(110, 6, inv.SellerName, "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(110, 4.5, inv.SellerAddress, "", "L", false)
	if inv.SellerGSTIN != "" {
		pdf.SetX(10)
		pdf.CellFormat(110, 4.5, "GSTIN: "+inv.SellerGSTIN, "", 2, "L", false, 0, "")
	}

	pdf.SetXY(120, top+10)
	pdf.CellFormat(80, 4.5, "Invoice No: "+inv.InvoiceNo, "", 2, "L", false, 0, "")
	pdf.CellFormat(80, 4.5, "Date: "+inv.InvoiceDate.Format("02-01-2006"), "", 2, "L", false, 0, "")
	if inv.VehicleNo != "" {
		pdf.CellFormat(80, 4.5, "Vehicle No: "+inv.VehicleNo, "", 2, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(10, top+38)
	pdf.CellFormat(190, 5, "Billed To:", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(190, 4.5, inv.BuyerName, "", 2, "L", false, 0, "")
	pdf.MultiCell(190, 4.5, inv.BuyerAddress, "", "L", false)
	if inv.BuyerGSTIN != "" {
		pdf.SetX(10)
		pdf.CellFormat(190, 4.5, "GSTIN: "+inv.BuyerGSTIN, "", 2, "L", false, 0, "")
	}

	pdf.SetY(top + HeaderHeight)
}

func drawTableHead(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetX(10)
	pdf.SetFillColor(235, 235, 235)
	for i, title := range colTitles {
		align := "L"
		if i >= 3 {
			align = "R"
		}
		pdf.CellFormat(colWidths[i], TableHeadHeight, title, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
}

func drawRow(pdf *gofpdf.Fpdf, item *model.InvoiceItem) {
	h := RowHeight(item.Description)
	x, y := 10.0, pdf.GetY()

	pdf.SetFont("Arial", "", 9)
	pdf.Rect(x, y, colWidths[0], h, "D")
	pdf.SetXY(x, y)
	pdf.CellFormat(colWidths[0], RowBaseHeight, fmt.Sprintf("%d", item.Position), "", 0, "L", false, 0, "")

	x += colWidths[0]
	pdf.Rect(x, y, colWidths[1], h, "D")
	pdf.SetXY(x+1, y+1)
	pdf.MultiCell(colWidths[1]-2, RowLineHeight, item.Description, "", "L", false)

	cells := []string{
		item.HSN,
		item.Quantity.StringFixed(2),
		item.Unit,
		item.Rate.StringFixed(2),
		item.LineTotal.StringFixed(2),
	}
	x += colWidths[1]
	for i, cell := range cells {
		w := colWidths[i+2]
		align := "R"
		if i == 0 || i == 2 {
			align = "L"
		}
		pdf.Rect(x, y, w, h, "D")
		pdf.SetXY(x, y)
		pdf.CellFormat(w, RowBaseHeight, cell, "", 0, align, false, 0, "")
		x += w
	}

	pdf.SetXY(10, y+h)
}

func drawTotals(pdf *gofpdf.Fpdf, inv *model.Invoice) {
	type line struct {
		label string
		value string
		bold  bool
	}
	lines := []line{
		{"Subtotal", inv.Subtotal.StringFixed(2), false},
		{"Discount", inv.Discount.StringFixed(2), false},
		{fmt.Sprintf("CGST @ %s%%", inv.CgstRate.StringFixed(2)), inv.CgstAmount.StringFixed(2), false},
		{fmt.Sprintf("SGST @ %s%%", inv.SgstRate.StringFixed(2)), inv.SgstAmount.StringFixed(2), false},
		{fmt.Sprintf("IGST @ %s%%", inv.IgstRate.StringFixed(2)), inv.IgstAmount.StringFixed(2), false},
		{"Round Off", inv.RoundOff.StringFixed(2), false},
		{"Total", inv.Total.StringFixed(2), true},
	}

	y := pdf.GetY() + 2
	for _, l := range lines {
		if l.bold {
			pdf.SetFont("Arial", "B", 10)
		} else {
			pdf.SetFont("Arial", "", 9)
		}
		pdf.SetXY(120, y)
		pdf.CellFormat(45, 5, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(35, 5, l.value, "", 0, "R", false, 0, "")
		y += 5.5
	}
	pdf.SetXY(10, y+2)
}

func drawWords(pdf *gofpdf.Fpdf, inv *model.Invoice) {
	pdf.SetFont("Arial", "I", 9)
	pdf.SetX(10)
	pdf.MultiCell(190, 5, "Amount in words: "+inv.TotalInWords, "", "L", false)
	pdf.SetX(10)
}

func drawFooter(pdf *gofpdf.Fpdf, inv *model.Invoice) {
	y := pdf.GetY() + 4
	pdf.SetFont("Arial", "", 8)
	pdf.SetXY(10, y)
	pdf.MultiCell(110, 4, "Certified that the particulars given above are true and correct.", "", "L", false)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetXY(120, y)
	pdf.CellFormat(80, 4.5, "For "+inv.SellerName, "", 2, "R", false, 0, "")
	pdf.SetXY(120, y+16)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(80, 4, "Authorised Signatory", "", 0, "R", false, 0, "")
}
