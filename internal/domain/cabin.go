package domain

import "fmt"

// CabinClass is a fare category, priced and inventoried per flight date.
type CabinClass string

const (
	CabinEconomy        CabinClass = "economy"
	CabinPremiumEconomy CabinClass = "premium_economy"
	CabinBusiness       CabinClass = "business"
	CabinFirst          CabinClass = "first"
)

var CabinClasses = []CabinClass{CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst}

func (c CabinClass) Valid() bool {
	switch c {
	case CabinEconomy, CabinPremiumEconomy, CabinBusiness, CabinFirst:
		return true
	}
	return false
}

// ParseCabinClass defaults an empty value to economy.
func ParseCabinClass(s string) (CabinClass, error) {
	if s == "" {
		return CabinEconomy, nil
	}
	c := CabinClass(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown cabin class %q", ErrValidation, s)
	}
	return c, nil
}
