package domain

import (
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

// Tax and fee rates applied to a quoted itinerary. The tax rate is 12%; an old
// screen labelled it "10%", which was a display bug, not the billed rate.
var (
	taxRate = decimal.NewFromFloat(0.12)
	feeRate = decimal.NewFromFloat(0.05)
)

// FallbackPricePerNight derives a stable nightly price for a spot that carries no
// cached price: a base-31 polynomial hash of the title (UTF-16 code units, uint32
// wraparound) mapped into [80, 200] in steps of 10. Pure function of the title;
// the same title always yields the same price, within and across sessions.
func FallbackPricePerNight(title string) int {
	var h uint32
	for _, u := range utf16.Encode([]rune(title)) {
		h = h*31 + uint32(u)
	}
	return (80 + int(h%121)) / 10 * 10
}

// CostLine is one unique spot priced over the stay.
type CostLine struct {
	Spot   SpotEntry       `json:"spot"`
	Unit   decimal.Decimal `json:"unit"`
	Amount decimal.Decimal `json:"amount"`
}

// CostBreakdown is the projected cost of an itinerary.
type CostBreakdown struct {
	Nights   int             `json:"nights"`
	Lines    []CostLine      `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Taxes    decimal.Decimal `json:"taxes"`
	Fees     decimal.Decimal `json:"fees"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeCost prices an itinerary for the given nights count.
//
// Spots are deduplicated by ID across all days; the first-encountered entry wins
// (day order, then in-day order) and later duplicates are dropped, not merged.
// Taxes and fees are rounded half-up to the nearest integer currency unit.
func ComputeCost(it Itinerary, nights int) CostBreakdown {
	bd := CostBreakdown{Nights: nights, Lines: []CostLine{}}

	n := decimal.NewFromInt(int64(nights))
	seen := make(map[SpotID]bool)
	subtotal := decimal.Zero
	for _, day := range it.Days.SortedDays() {
		for _, s := range it.Days[day] {
			if seen[s.ID] {
				continue
			}
			seen[s.ID] = true

			var unit decimal.Decimal
			if s.PricePerNight != nil {
				unit = decimal.NewFromFloat(*s.PricePerNight)
			} else {
				unit = decimal.NewFromInt(int64(FallbackPricePerNight(s.Title)))
			}
			amount := unit.Mul(n)
			subtotal = subtotal.Add(amount)
			bd.Lines = append(bd.Lines, CostLine{Spot: s.Clone(), Unit: unit, Amount: amount})
		}
	}

	bd.Subtotal = subtotal
	bd.Taxes = subtotal.Mul(taxRate).Round(0)
	bd.Fees = subtotal.Mul(feeRate).Round(0)
	bd.Total = subtotal.Add(bd.Taxes).Add(bd.Fees)
	return bd
}

// Quote prices an itinerary using its own dates for the nights count.
func Quote(it Itinerary) CostBreakdown {
	return ComputeCost(it, Nights(it))
}
