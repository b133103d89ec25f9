package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// ParseBookingStatus accepts an empty string as "any status".
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "" || st.Valid() {
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, s)
}

type Passenger struct {
	ID          int64
	Code        string
	FirstName   string
	LastName    string
	Email       string
	IsCorporate bool
	CompanyName string
}

func (p Passenger) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Booking struct {
	ID                int64
	Reference         string
	PassengerID       int64
	FlightID          int64
	FlightDate        time.Time
	CabinClass        CabinClass
	SeatNumber        string
	TicketPrice       float64
	CorporateDiscount float64
	CheckedBags       int
	Status            BookingStatus
	PurposeOfTravel   string
	BookedAt          time.Time
}

func (b Booking) Slot() SlotKey {
	return SlotKey{FlightID: b.FlightID, FlightDate: b.FlightDate, CabinClass: b.CabinClass}
}

// BookingDetails is a booking joined with its passenger and flight.
type BookingDetails struct {
	Booking
	Passenger Passenger
	Flight    Flight
}

type BookingFilter struct {
	PassengerID int64
	Status      BookingStatus
	IncludePast bool
	Today       time.Time
}
