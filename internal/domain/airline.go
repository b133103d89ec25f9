package domain

type Airline struct {
	ID                       int64   `json:"airline_id"`
	Code                     string  `json:"airline_code"`
	Name                     string  `json:"airline_name"`
	Country                  string  `json:"country"`
	CorporateDiscountPercent float64 `json:"corporate_discount_percent"`
	IsPreferredVendor        bool    `json:"is_preferred_vendor"`
	HubAirport               string  `json:"hub_airport,omitempty"`
}

type Airport struct {
	ID       int64  `json:"airport_id"`
	Code     string `json:"airport_code"`
	Name     string `json:"airport_name"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Country  string `json:"country"`
	Timezone string `json:"timezone,omitempty"`
}

// CityAirports is the unfiltered airport listing: one row per city.
type CityAirports struct {
	City         string `json:"city"`
	State        string `json:"state,omitempty"`
	Country      string `json:"country"`
	AirportCount int    `json:"airport_count"`
}

type BaggageAllowance struct {
	AirlineCode        string     `json:"airline_code,omitempty"`
	AirlineName        string     `json:"airline_name,omitempty"`
	CabinClass         CabinClass `json:"cabin_class"`
	CheckedBags        int        `json:"checked_bags"`
	CheckedBagWeightKg int        `json:"checked_bag_weight_kg"`
	CarryOnBags        int        `json:"carry_on_bags"`
	CarryOnWeightKg    int        `json:"carry_on_weight_kg"`
}
