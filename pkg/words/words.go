// Package words converts invoice amounts to their spelled-out form using the
// Indian numbering system (thousand, lakh, crore).
package words

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// belowHundred spells 0..99; returns "" for 0.
func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}

// belowThousand spells 0..999; returns "" for 0.
func belowThousand(n int64) string {
	if n < 100 {
		return belowHundred(n)
	}
	s := ones[n/100] + " Hundred"
	if rest := belowHundred(n % 100); rest != "" {
		s += " " + rest
	}
	return s
}

// Number spells a non-negative integer in the Indian system. Crore parts
// recurse, so amounts beyond 99 crore read as "<words> Crore ...".
func Number(n int64) string {
	if n == 0 {
		return "Zero"
	}

	var parts []string
	if crore := n / 1e7; crore > 0 {
		parts = append(parts, Number(crore)+" Crore")
		n %= 1e7
	}
	if lakh := n / 1e5; lakh > 0 {
		parts = append(parts, belowHundred(lakh)+" Lakh")
		n %= 1e5
	}
	if thousand := n / 1e3; thousand > 0 {
		parts = append(parts, belowHundred(thousand)+" Thousand")
		n %= 1e3
	}
	if n > 0 {
		parts = append(parts, belowThousand(n))
	}
	return strings.Join(parts, " ")
}

// Rupees renders an invoice total as "Rupees <n> Only", or
// "Rupees <n> and <p> Paise Only" when the amount carries paise.
func Rupees(amount decimal.Decimal) string {
	amount = amount.Round(2)
	whole := amount.Truncate(0)
	paise := amount.Sub(whole).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if paise < 0 {
		paise = -paise
	}

	s := "Rupees " + Number(whole.IntPart())
	if paise > 0 {
		s += " and " + Number(paise) + " Paise"
	}
	return s + " Only"
}
