// Package tools exposes the booking operations as named tools taking JSON
// arguments, the form served over gRPC and the HTTP gateway.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/catalog"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
)

const (
	SearchFlights         = "search_flights"
	GetFlightDetails      = "get_flight_details"
	CheckSeatAvailability = "check_seat_availability"
	CreateFlightBooking   = "create_flight_booking"
	GetBookingDetails     = "get_booking_details"
	ListBookingsByEmail   = "list_bookings_by_email"
	CancelFlightBooking   = "cancel_flight_booking"
	CalculateFlightCost   = "calculate_flight_cost"
	GetAirlines           = "get_airlines"
	GetAirports           = "get_airports"
	GetBaggageAllowance   = "get_baggage_allowance"
	GetRouteOptions       = "get_route_options"
)

type Handler func(ctx context.Context, args json.RawMessage) (any, error)

type Tool struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Arguments   []string `json:"arguments"`
	handler     Handler
}

type Registry struct {
	tools []Tool
	index map[string]int
}

type unknownToolError struct {
	name string
}

func (e *unknownToolError) Error() string { return fmt.Sprintf("unknown tool %q", e.name) }

func (e *unknownToolError) Unwrap() error { return domain.ErrNotFound }

type bookingReferenceArgs struct {
	BookingReference string `json:"booking_reference"`
}

type countryArgs struct {
	Country string `json:"country"`
}

type airportArgs struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

type baggageArgs struct {
	AirlineCode string `json:"airline_code"`
	CabinClass  string `json:"cabin_class"`
}

type routeArgs struct {
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
}

type availabilityArgs struct {
	FlightID   int64  `json:"flight_id"`
	TravelDate string `json:"travel_date"`
	CabinClass string `json:"cabin_class"`
}

func NewRegistry(flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, catalogSvc catalog.CatalogUseCase) *Registry {
	r := &Registry{index: map[string]int{}}

	r.add(SearchFlights, "Search flights between two cities on a date, priced for the cabin and corporate status.",
		bind(func(ctx context.Context, in flights.SearchInput) (any, error) {
			return flightSvc.Search(ctx, in)
		}))
	r.add(GetFlightDetails, "Flight details with pricing and baggage for every cabin sold on the date.",
		bind(func(ctx context.Context, in flights.SlotInput) (any, error) {
			return flightSvc.Details(ctx, in)
		}))
	r.add(CheckSeatAvailability, "Seats left and current price for a flight, date and cabin.",
		bind(func(ctx context.Context, in availabilityArgs) (any, error) {
			return flightSvc.Availability(ctx, flights.SlotInput{FlightID: in.FlightID, TravelDate: in.TravelDate, CabinClass: in.CabinClass})
		}))
	r.add(CreateFlightBooking, "Book a seat. The passenger is registered on first booking.",
		bind(func(ctx context.Context, in booking.CreateBookingInput) (any, error) {
			return bookingSvc.CreateBooking(ctx, in)
		}))
	r.add(GetBookingDetails, "Complete booking record by reference.",
		bind(func(ctx context.Context, in bookingReferenceArgs) (any, error) {
			return bookingSvc.GetBookingDetails(ctx, in.BookingReference)
		}))
	r.add(ListBookingsByEmail, "Bookings of a passenger, optionally by status and including past flights.",
		bind(func(ctx context.Context, in booking.ListBookingsInput) (any, error) {
			return bookingSvc.ListBookingsByEmail(ctx, in)
		}))
	r.add(CancelFlightBooking, "Cancel a booking and restore its seat.",
		bind(func(ctx context.Context, in booking.CancelBookingInput) (any, error) {
			return bookingSvc.CancelBooking(ctx, in)
		}))
	r.add(CalculateFlightCost, "Cost breakdown for a flight, date and cabin.",
		bind(func(ctx context.Context, in flights.SlotInput) (any, error) {
			return flightSvc.Cost(ctx, in)
		}))
	r.add(GetAirlines, "Airlines with corporate discount rates, optionally by country.",
		bind(func(ctx context.Context, in countryArgs) (any, error) {
			return catalogSvc.Airlines(ctx, in.Country)
		}))
	r.add(GetAirports, "Airports by city or country; cities with airport counts when unfiltered.",
		bind(func(ctx context.Context, in airportArgs) (any, error) {
			return catalogSvc.Airports(ctx, in.City, in.Country)
		}))
	r.add(GetBaggageAllowance, "Baggage allowance for an airline and cabin.",
		bind(func(ctx context.Context, in baggageArgs) (any, error) {
			cabin, err := domain.ParseCabinClass(in.CabinClass)
			if err != nil {
				return nil, err
			}
			return catalogSvc.BaggageAllowance(ctx, in.AirlineCode, cabin)
		}))
	r.add(GetRouteOptions, "Every scheduled flight between two cities.",
		bind(func(ctx context.Context, in routeArgs) (any, error) {
			return flightSvc.RouteOptions(ctx, in.OriginCity, in.DestinationCity)
		}))

	return r
}

func (r *Registry) add(name, description string, b binding) {
	r.index[name] = len(r.tools)
	r.tools = append(r.tools, Tool{Name: name, Description: description, Arguments: b.args, handler: b.handler})
}

// Tools lists the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Invoke runs the named tool. Unknown names wrap domain.ErrNotFound and
// malformed arguments wrap domain.ErrValidation.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, &unknownToolError{name: name}
	}
	return r.tools[i].handler(ctx, args)
}

type binding struct {
	args    []string
	handler Handler
}

func bind[T any](fn func(ctx context.Context, in T) (any, error)) binding {
	return binding{
		args: argNames[T](),
		handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var in T
			if err := decodeArgs(raw, &in); err != nil {
				return nil, err
			}
			return fn(ctx, in)
		},
	}
}

func decodeArgs(raw json.RawMessage, dest any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid arguments: %v", domain.ErrValidation, err)
	}
	return nil
}

func argNames[T any]() []string {
	t := reflect.TypeFor[T]()
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}
