package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/pricing"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

type FlightUseCase interface {
	Search(ctx context.Context, in SearchInput) (*SearchResult, error)
	Details(ctx context.Context, in SlotInput) (*FlightDetails, error)
	Availability(ctx context.Context, in SlotInput) (*Availability, error)
	Cost(ctx context.Context, in SlotInput) (*CostBreakdown, error)
	RouteOptions(ctx context.Context, originCity, destinationCity string) (*RouteOptions, error)
}

// BaggageLookup is satisfied by the catalog service.
type BaggageLookup interface {
	BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error)
}

type SearchInput struct {
	OriginCity      string   `json:"origin_city"`
	DestinationCity string   `json:"destination_city"`
	TravelDate      string   `json:"travel_date"`
	CabinClass      string   `json:"cabin_class"`
	IsCorporate     bool     `json:"is_corporate"`
	PreferredOnly   bool     `json:"preferred_airlines_only"`
	MaxPrice        *float64 `json:"max_price"`
}

// SlotInput addresses one flight on one date. CabinClass defaults to economy.
type SlotInput struct {
	FlightID    int64  `json:"flight_id"`
	TravelDate  string `json:"travel_date"`
	CabinClass  string `json:"cabin_class"`
	IsCorporate bool   `json:"is_corporate"`
}

type SearchCriteria struct {
	OriginCity         string            `json:"origin_city"`
	DestinationCity    string            `json:"destination_city"`
	TravelDate         string            `json:"travel_date"`
	CabinClass         domain.CabinClass `json:"cabin_class"`
	IsCorporateBooking bool              `json:"is_corporate_booking"`
	PreferredOnly      bool              `json:"preferred_only"`
	MaxPrice           *float64          `json:"max_price,omitempty"`
}

type SearchResult struct {
	Criteria     SearchCriteria `json:"search_criteria"`
	ResultsCount int            `json:"results_count"`
	Flights      []FlightResult `json:"flights"`
}

type FlightResult struct {
	domain.Flight
	CabinClass       domain.CabinClass        `json:"cabin_class"`
	AvailableSeats   int                      `json:"available_seats"`
	DurationHours    float64                  `json:"duration_hours"`
	Pricing          pricing.Quote            `json:"pricing"`
	BaggageAllowance *domain.BaggageAllowance `json:"baggage_allowance,omitempty"`
}

type CabinAvailability struct {
	CabinClass       domain.CabinClass        `json:"cabin_class"`
	AvailableSeats   int                      `json:"available_seats"`
	Pricing          pricing.Quote            `json:"pricing"`
	BaggageAllowance *domain.BaggageAllowance `json:"baggage_allowance"`
}

type FlightDetails struct {
	domain.Flight
	TravelDate         string              `json:"travel_date"`
	DurationHours      float64             `json:"duration_hours"`
	PricingIsCorporate bool                `json:"pricing_is_corporate"`
	CabinAvailability  []CabinAvailability `json:"cabin_availability"`
}

type Availability struct {
	FlightID       int64             `json:"flight_id"`
	Airline        string            `json:"airline"`
	AirlineCode    string            `json:"airline_code"`
	FlightNumber   string            `json:"flight_number"`
	Route          string            `json:"route"`
	TravelDate     string            `json:"travel_date"`
	CabinClass     domain.CabinClass `json:"cabin_class"`
	AvailableSeats int               `json:"available_seats"`
	IsAvailable    bool              `json:"is_available"`
	CurrentPrice   float64           `json:"current_price"`
}

type CostFlight struct {
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Route         string  `json:"route"`
	DurationHours float64 `json:"duration_hours"`
}

type TravelDetails struct {
	TravelDate string            `json:"travel_date"`
	CabinClass domain.CabinClass `json:"cabin_class"`
}

type CostBreakdown struct {
	Flight             CostFlight    `json:"flight"`
	TravelDetails      TravelDetails `json:"travel_details"`
	CostBreakdown      pricing.Quote `json:"cost_breakdown"`
	IsCorporateBooking bool          `json:"is_corporate_booking"`
}

type RouteOption struct {
	domain.Flight
	DurationHours float64 `json:"duration_hours"`
}

// RouteOptions carries Message instead of Route when nothing flies the pair.
type RouteOptions struct {
	Message     string        `json:"message,omitempty"`
	Route       string        `json:"route,omitempty"`
	RoutesCount int           `json:"routes_count"`
	Routes      []RouteOption `json:"routes"`
}

type FlightService struct {
	repo    repository.FlightRepository
	baggage BaggageLookup
}

func NewFlightService(repo repository.FlightRepository, baggage BaggageLookup) *FlightService {
	return &FlightService{repo: repo, baggage: baggage}
}

// Search prices every matching slot and drops offers above MaxPrice.
func (s *FlightService) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	origin, dest := strings.TrimSpace(in.OriginCity), strings.TrimSpace(in.DestinationCity)
	if origin == "" || dest == "" {
		return nil, fmt.Errorf("%w: origin_city and destination_city are required", domain.ErrValidation)
	}
	date, err := domain.ParseTravelDate(in.TravelDate)
	if err != nil {
		return nil, err
	}
	cabin, err := domain.ParseCabinClass(in.CabinClass)
	if err != nil {
		return nil, err
	}

	offers, err := s.repo.Search(ctx, domain.SearchCriteria{
		OriginCity:      origin,
		DestinationCity: dest,
		TravelDate:      date,
		CabinClass:      cabin,
		PreferredOnly:   in.PreferredOnly,
	})
	if err != nil {
		return nil, err
	}

	results := make([]FlightResult, 0, len(offers))
	for _, o := range offers {
		quote := pricing.Calculate(o.Slot.BasePrice, o.Slot.PriceMultiplier, in.IsCorporate, o.Airline.CorporateDiscountPercent)
		if in.MaxPrice != nil && quote.FinalPrice > *in.MaxPrice {
			continue
		}

		baggage, err := s.lookupBaggage(ctx, o.Airline.Code, cabin)
		if err != nil {
			return nil, err
		}

		results = append(results, FlightResult{
			Flight:           o.Flight,
			CabinClass:       cabin,
			AvailableSeats:   o.Slot.AvailableSeats,
			DurationHours:    o.DurationHours(),
			Pricing:          quote,
			BaggageAllowance: baggage,
		})
	}

	return &SearchResult{
		Criteria: SearchCriteria{
			OriginCity:         origin,
			DestinationCity:    dest,
			TravelDate:         date.Format(domain.DateLayout),
			CabinClass:         cabin,
			IsCorporateBooking: in.IsCorporate,
			PreferredOnly:      in.PreferredOnly,
			MaxPrice:           in.MaxPrice,
		},
		ResultsCount: len(results),
		Flights:      results,
	}, nil
}

// Details lists every cabin sold on the date, in cabin order.
func (s *FlightService) Details(ctx context.Context, in SlotInput) (*FlightDetails, error) {
	key, err := in.slotKey()
	if err != nil {
		return nil, err
	}

	flight, err := s.repo.GetByID(ctx, key.FlightID)
	if err != nil {
		return nil, err
	}

	slots, err := s.repo.ListInventory(ctx, key.FlightID, key.FlightDate)
	if err != nil {
		return nil, err
	}

	cabins := make([]CabinAvailability, 0, len(slots))
	for _, slot := range slots {
		baggage, err := s.lookupBaggage(ctx, flight.Airline.Code, slot.CabinClass)
		if err != nil {
			return nil, err
		}
		cabins = append(cabins, CabinAvailability{
			CabinClass:       slot.CabinClass,
			AvailableSeats:   slot.AvailableSeats,
			Pricing:          pricing.Calculate(slot.BasePrice, slot.PriceMultiplier, in.IsCorporate, flight.Airline.CorporateDiscountPercent),
			BaggageAllowance: baggage,
		})
	}

	return &FlightDetails{
		Flight:             *flight,
		TravelDate:         key.FlightDate.Format(domain.DateLayout),
		DurationHours:      flight.DurationHours(),
		PricingIsCorporate: in.IsCorporate,
		CabinAvailability:  cabins,
	}, nil
}

func (s *FlightService) Availability(ctx context.Context, in SlotInput) (*Availability, error) {
	key, err := in.slotKey()
	if err != nil {
		return nil, err
	}

	offer, err := s.repo.GetOffer(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Availability{
		FlightID:       offer.ID,
		Airline:        offer.Airline.Name,
		AirlineCode:    offer.Airline.Code,
		FlightNumber:   offer.FlightNumber,
		Route:          offer.Route(),
		TravelDate:     key.FlightDate.Format(domain.DateLayout),
		CabinClass:     key.CabinClass,
		AvailableSeats: offer.Slot.AvailableSeats,
		IsAvailable:    offer.Slot.AvailableSeats > 0,
		CurrentPrice:   pricing.CurrentPrice(offer.Slot.BasePrice, offer.Slot.PriceMultiplier),
	}, nil
}

func (s *FlightService) Cost(ctx context.Context, in SlotInput) (*CostBreakdown, error) {
	key, err := in.slotKey()
	if err != nil {
		return nil, err
	}

	offer, err := s.repo.GetOffer(ctx, key)
	if err != nil {
		return nil, err
	}

	return &CostBreakdown{
		Flight: CostFlight{
			Airline:       offer.Airline.Name,
			FlightNumber:  offer.FlightNumber,
			Route:         offer.Route(),
			DurationHours: offer.DurationHours(),
		},
		TravelDetails: TravelDetails{
			TravelDate: key.FlightDate.Format(domain.DateLayout),
			CabinClass: key.CabinClass,
		},
		CostBreakdown:      pricing.Calculate(offer.Slot.BasePrice, offer.Slot.PriceMultiplier, in.IsCorporate, offer.Airline.CorporateDiscountPercent),
		IsCorporateBooking: in.IsCorporate,
	}, nil
}

func (s *FlightService) RouteOptions(ctx context.Context, originCity, destinationCity string) (*RouteOptions, error) {
	origin, dest := strings.TrimSpace(originCity), strings.TrimSpace(destinationCity)
	if origin == "" || dest == "" {
		return nil, fmt.Errorf("%w: origin_city and destination_city are required", domain.ErrValidation)
	}

	flights, err := s.repo.RouteOptions(ctx, origin, dest)
	if err != nil {
		return nil, err
	}

	if len(flights) == 0 {
		return &RouteOptions{
			Message: fmt.Sprintf("No direct flights found between %s and %s", origin, dest),
			Routes:  []RouteOption{},
		}, nil
	}

	routes := make([]RouteOption, 0, len(flights))
	for _, f := range flights {
		routes = append(routes, RouteOption{Flight: f, DurationHours: f.DurationHours()})
	}
	return &RouteOptions{
		Route:       fmt.Sprintf("%s to %s", origin, dest),
		RoutesCount: len(routes),
		Routes:      routes,
	}, nil
}

// lookupBaggage treats a missing allowance as absent rather than an error.
func (s *FlightService) lookupBaggage(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error) {
	if s.baggage == nil {
		return nil, nil
	}
	b, err := s.baggage.BaggageAllowance(ctx, airlineCode, cabin)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (in SlotInput) slotKey() (domain.SlotKey, error) {
	if in.FlightID <= 0 {
		return domain.SlotKey{}, fmt.Errorf("%w: flight_id must be positive", domain.ErrValidation)
	}
	date, err := domain.ParseTravelDate(in.TravelDate)
	if err != nil {
		return domain.SlotKey{}, err
	}
	cabin, err := domain.ParseCabinClass(in.CabinClass)
	if err != nil {
		return domain.SlotKey{}, err
	}
	return domain.SlotKey{FlightID: in.FlightID, FlightDate: date, CabinClass: cabin}, nil
}

var _ FlightUseCase = (*FlightService)(nil)
