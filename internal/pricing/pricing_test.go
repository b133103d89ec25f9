package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate_CorporateExample(t *testing.T) {
	q := Calculate(500, 1.2, true, 15)

	assert.Equal(t, 500.0, q.BasePrice)
	assert.Equal(t, 600.0, q.DynamicPrice)
	assert.Equal(t, 15.0, q.CorporateDiscountPercent)
	assert.Equal(t, 90.0, q.CorporateDiscountAmount)
	assert.Equal(t, 510.0, q.FinalPrice)
}

func TestCalculate_NotCorporate(t *testing.T) {
	q := Calculate(500, 1.2, false, 15)

	assert.Equal(t, 600.0, q.DynamicPrice)
	assert.Zero(t, q.CorporateDiscountPercent)
	assert.Zero(t, q.CorporateDiscountAmount)
	assert.Equal(t, 600.0, q.FinalPrice)
}

func TestCalculate_ZeroDiscount(t *testing.T) {
	q := Calculate(199.99, 1, true, 0)

	assert.Zero(t, q.CorporateDiscountAmount)
	assert.Equal(t, 199.99, q.FinalPrice)
}

func TestCalculate_FullDiscount(t *testing.T) {
	q := Calculate(320, 1.5, true, 100)

	assert.Equal(t, 480.0, q.DynamicPrice)
	assert.Equal(t, 480.0, q.CorporateDiscountAmount)
	assert.Zero(t, q.FinalPrice)
}

func TestCalculate_FinalNeverExceedsDynamic(t *testing.T) {
	bases := []float64{0, 0.01, 99.99, 150, 487.33, 1234.56, 3500}
	multipliers := []float64{0.5, 0.83, 1, 1.2, 1.49, 2}
	discounts := []float64{0, 6, 12.5, 18, 20, 100}

	for _, b := range bases {
		for _, m := range multipliers {
			for _, d := range discounts {
				q := Calculate(b, m, true, d)
				dynamic := b * m
				assert.LessOrEqual(t, q.FinalPrice, q.DynamicPrice, "base=%v mult=%v disc=%v", b, m, d)
				assert.Equal(t, Round(dynamic-dynamic*(d/100)), q.FinalPrice, "base=%v mult=%v disc=%v", b, m, d)
			}
		}
	}
}

func TestRound_HalfToEven(t *testing.T) {
	assert.Equal(t, 0.12, Round(0.125))
	assert.Equal(t, 0.38, Round(0.375))
	assert.Equal(t, 10.0, Round(9.999))
	assert.Equal(t, 0.0, Round(0))
}

func TestCurrentPrice(t *testing.T) {
	assert.Equal(t, 600.0, CurrentPrice(500, 1.2))
	assert.Equal(t, 432.1, CurrentPrice(432.1, 1))
}
