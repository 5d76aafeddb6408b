package service

import "github.com/shopspring/decimal"

// LineAmounts is the qty/rate pair the totals computation needs from a line.
type LineAmounts struct {
	Quantity decimal.Decimal
	Rate     decimal.Decimal
}

// Totals is the derived money breakdown stored on an invoice at creation.
type Totals struct {
	LineTotals []decimal.Decimal
	Subtotal   decimal.Decimal
	CgstAmount decimal.Decimal
	SgstAmount decimal.Decimal
	IgstAmount decimal.Decimal
	RoundOff   decimal.Decimal
	Total      decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives all stored money fields from the line items, the
// three GST rates (percentages) and the discount:
//
//	subtotal  = Σ(qty × rate)
//	each tax  = subtotal × rate/100
//	total     = round(subtotal − discount + taxes) to the nearest rupee
//	round_off = total − the unrounded sum
func ComputeTotals(lines []LineAmounts, cgstRate, sgstRate, igstRate, discount decimal.Decimal) Totals {
	t := Totals{
		LineTotals: make([]decimal.Decimal, 0, len(lines)),
		Subtotal:   decimal.Zero,
	}

	for _, line := range lines {
		lineTotal := line.Quantity.Mul(line.Rate).Round(2)
		t.LineTotals = append(t.LineTotals, lineTotal)
		t.Subtotal = t.Subtotal.Add(lineTotal)
	}

	t.CgstAmount = t.Subtotal.Mul(cgstRate).Div(hundred).Round(2)
	t.SgstAmount = t.Subtotal.Mul(sgstRate).Div(hundred).Round(2)
	t.IgstAmount = t.Subtotal.Mul(igstRate).Div(hundred).Round(2)

	raw := t.Subtotal.Sub(discount).Add(t.CgstAmount).Add(t.SgstAmount).Add(t.IgstAmount)
	t.Total = raw.Round(0)
	t.RoundOff = t.Total.Sub(raw)

	return t
}
