package words

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{0, "Zero"},
		{7, "Seven"},
		{13, "Thirteen"},
		{20, "Twenty"},
		{42, "Forty Two"},
		{100, "One Hundred"},
		{118, "One Hundred Eighteen"},
		{295, "Two Hundred Ninety Five"},
		{1000, "One Thousand"},
		{1947, "One Thousand Nine Hundred Forty Seven"},
		{100000, "One Lakh"},
		{123456, "One Lakh Twenty Three Thousand Four Hundred Fifty Six"},
		{10000000, "One Crore"},
		{12345678, "One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight"},
		// Crore parts recurse through the full Indian grouping.
		{1000000000, "One Hundred Crore"},
		{12000000000, "One Thousand Two Hundred Crore"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Number(tc.n), "Number(%d)", tc.n)
	}
}

func TestRupees(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "Rupees Zero Only"},
		{"295", "Rupees Two Hundred Ninety Five Only"},
		{"295.00", "Rupees Two Hundred Ninety Five Only"},
		{"1.50", "Rupees One and Fifty Paise Only"},
		{"0.05", "Rupees Zero and Five Paise Only"},
		{"118.01", "Rupees One Hundred Eighteen and One Paise Only"},
		{"100000.99", "Rupees One Lakh and Ninety Nine Paise Only"},
	}

	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, Rupees(amount), "Rupees(%s)", tc.amount)
	}
}

func TestRupeesRoundsToPaise(t *testing.T) {
	amount, _ := decimal.NewFromString("10.999")
	assert.Equal(t, "Rupees Eleven Only", Rupees(amount))
}
