package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

// Flight is a schedule template joined with its airline and airports.
// Departure and arrival are times of day, formatted HH:MM.
type Flight struct {
	ID              int64   `json:"flight_id"`
	FlightNumber    string  `json:"flight_number"`
	AircraftType    string  `json:"aircraft_type,omitempty"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalSeats      int     `json:"total_seats"`
	Airline         Airline `json:"airline"`
	Origin          Airport `json:"origin"`
	Destination     Airport `json:"destination"`
}

func (f Flight) DurationHours() float64 {
	return math.Round(float64(f.DurationMinutes)/60*10) / 10
}

func (f Flight) Route() string {
	return f.Origin.City + " to " + f.Destination.City
}

// SlotKey identifies one bookable inventory slot.
type SlotKey struct {
	FlightID   int64
	FlightDate time.Time
	CabinClass CabinClass
}

type InventorySlot struct {
	SlotKey
	BasePrice       float64
	PriceMultiplier float64
	AvailableSeats  int
}

// FlightOffer is one search hit: a flight with the slot matched for the query.
type FlightOffer struct {
	Flight
	Slot InventorySlot
}

type SearchCriteria struct {
	OriginCity      string
	DestinationCity string
	TravelDate      time.Time
	CabinClass      CabinClass
	PreferredOnly   bool
}

// ParseTravelDate parses a YYYY-MM-DD date as midnight UTC.
func ParseTravelDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: travel_date must be YYYY-MM-DD, got %q", ErrValidation, s)
	}
	return d, nil
}

// Today returns the current UTC calendar day at midnight.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
