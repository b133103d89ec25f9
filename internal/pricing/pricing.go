// Package pricing computes ticket prices from an inventory slot and the
// airline's corporate agreement.
package pricing

import "math"

type Quote struct {
	BasePrice                float64 `json:"base_price"`
	DynamicPrice             float64 `json:"dynamic_price"`
	CorporateDiscountPercent float64 `json:"corporate_discount_percent"`
	CorporateDiscountAmount  float64 `json:"corporate_discount_amount"`
	FinalPrice               float64 `json:"final_price"`
}

// Calculate applies the slot multiplier and, for corporate bookings, the
// airline discount. Amounts are rounded half-to-even to cents; the final
// price is rounded from the unrounded difference.
func Calculate(basePrice, multiplier float64, isCorporate bool, discountPercent float64) Quote {
	dynamic := basePrice * multiplier

	var discount, percent float64
	if isCorporate {
		percent = discountPercent
		if discountPercent > 0 {
			discount = dynamic * (discountPercent / 100)
		}
	}

	return Quote{
		BasePrice:                Round(basePrice),
		DynamicPrice:             Round(dynamic),
		CorporateDiscountPercent: percent,
		CorporateDiscountAmount:  Round(discount),
		FinalPrice:               Round(dynamic - discount),
	}
}

// CurrentPrice is the undiscounted price of a slot.
func CurrentPrice(basePrice, multiplier float64) float64 {
	return Round(basePrice * multiplier)
}

func Round(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
