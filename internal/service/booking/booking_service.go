package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/pricing"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error)
	CancelBooking(ctx context.Context, input CancelBookingInput) (*Cancellation, error)
	GetBookingDetails(ctx context.Context, reference string) (*BookingRecord, error)
	ListBookingsByEmail(ctx context.Context, input ListBookingsInput) (*PassengerBookings, error)
	CompleteDepartedBookings(ctx context.Context) (int, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// BaggageLookup is satisfied by the catalog service.
type BaggageLookup interface {
	BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error)
}

// maxIDAttempts bounds regeneration of booking references and passenger codes.
const maxIDAttempts = 5

type BookingService struct {
	bookings           repository.BookingRepository
	baggage            BaggageLookup
	producer           Producer
	ids                IDSource
	now                func() time.Time
	log                *slog.Logger
	bookingTopic       string
	notificationsTopic string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithIDSource(ids IDSource) BookingServiceOption {
	return func(s *BookingService) {
		s.ids = ids
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	baggage BaggageLookup,
	producer Producer,
	bookingTopic string,
	log *slog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		baggage:      baggage,
		producer:     producer,
		ids:          RandomIDs{},
		now:          time.Now,
		log:          log,
		bookingTopic: bookingTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type CreateBookingInput struct {
	FlightID        int64  `json:"flight_id"`
	TravelDate      string `json:"travel_date"`
	PassengerName   string `json:"passenger_name"`
	PassengerEmail  string `json:"passenger_email"`
	CabinClass      string `json:"cabin_class"`
	IsCorporate     bool   `json:"is_corporate"`
	CompanyName     string `json:"company_name"`
	CheckedBags     int    `json:"checked_bags"`
	PurposeOfTravel string `json:"purpose_of_travel"`
}

type CancelBookingInput struct {
	BookingReference string `json:"booking_reference"`
	PassengerEmail   string `json:"passenger_email"`
}

type ListBookingsInput struct {
	PassengerEmail string `json:"passenger_email"`
	Status         string `json:"status"`
	IncludePast    bool   `json:"include_past"`
}

type Confirmation struct {
	Success          bool                 `json:"success"`
	BookingReference string               `json:"booking_reference"`
	Status           domain.BookingStatus `json:"status"`
	Details          ConfirmationDetails  `json:"details"`
	Message          string               `json:"message"`
}

type ConfirmationDetails struct {
	PassengerName     string            `json:"passenger_name"`
	PassengerEmail    string            `json:"passenger_email"`
	IsCorporate       bool              `json:"is_corporate"`
	Company           string            `json:"company,omitempty"`
	FlightNumber      string            `json:"flight_number"`
	Route             string            `json:"route"`
	TravelDate        string            `json:"travel_date"`
	DepartureTime     string            `json:"departure_time"`
	CabinClass        domain.CabinClass `json:"cabin_class"`
	SeatNumber        string            `json:"seat_number"`
	TicketPrice       float64           `json:"ticket_price"`
	CorporateDiscount float64           `json:"corporate_discount"`
	CheckedBags       int               `json:"checked_bags"`
	Purpose           string            `json:"purpose"`
}

type Cancellation struct {
	Success          bool                 `json:"success"`
	BookingReference string               `json:"booking_reference"`
	Status           domain.BookingStatus `json:"status"`
	Message          string               `json:"message"`
}

type BookingRecord struct {
	BookingID         int64                    `json:"booking_id"`
	BookingReference  string                   `json:"booking_reference"`
	BookingStatus     domain.BookingStatus     `json:"booking_status"`
	FlightDate        string                   `json:"flight_date"`
	CabinClass        domain.CabinClass        `json:"cabin_class"`
	SeatNumber        string                   `json:"seat_number"`
	TicketPrice       float64                  `json:"ticket_price"`
	CorporateDiscount float64                  `json:"corporate_discount"`
	CheckedBags       int                      `json:"checked_bags"`
	PurposeOfTravel   string                   `json:"purpose_of_travel"`
	BookedAt          time.Time                `json:"booked_at"`
	PassengerName     string                   `json:"passenger_name"`
	Email             string                   `json:"email"`
	IsCorporate       bool                     `json:"is_corporate"`
	CompanyName       string                   `json:"company_name,omitempty"`
	Flight            domain.Flight            `json:"flight"`
	DurationHours     float64                  `json:"duration_hours"`
	BaggageAllowance  *domain.BaggageAllowance `json:"baggage_allowance,omitempty"`
}

type BookingSummary struct {
	BookingReference string               `json:"booking_reference"`
	BookingStatus    domain.BookingStatus `json:"booking_status"`
	FlightDate       string               `json:"flight_date"`
	AirlineName      string               `json:"airline_name"`
	FlightNumber     string               `json:"flight_number"`
	OriginCity       string               `json:"origin_city"`
	DestinationCity  string               `json:"destination_city"`
	DepartureTime    string               `json:"departure_time"`
	ArrivalTime      string               `json:"arrival_time"`
	CabinClass       domain.CabinClass    `json:"cabin_class"`
	SeatNumber       string               `json:"seat_number"`
	TicketPrice      float64              `json:"ticket_price"`
	PurposeOfTravel  string               `json:"purpose_of_travel"`
}

type PassengerSummary struct {
	PassengerName  string `json:"passenger_name"`
	PassengerEmail string `json:"passenger_email"`
	IsCorporate    bool   `json:"is_corporate"`
	Company        string `json:"company,omitempty"`
}

// PassengerBookings has a nil PassengerSummary and a Message when the email
// is unknown.
type PassengerBookings struct {
	Message string `json:"message,omitempty"`
	*PassengerSummary
	BookingsCount int              `json:"bookings_count"`
	Bookings      []BookingSummary `json:"bookings"`
}

type bookingRequest struct {
	key       domain.SlotKey
	name      string
	email     string
	corporate bool
	company   string
	bags      int
	purpose   string
}

func (in CreateBookingInput) validate() (bookingRequest, error) {
	req := bookingRequest{
		name:      strings.TrimSpace(in.PassengerName),
		email:     strings.TrimSpace(in.PassengerEmail),
		corporate: in.IsCorporate,
		company:   strings.TrimSpace(in.CompanyName),
		bags:      in.CheckedBags,
		purpose:   strings.TrimSpace(in.PurposeOfTravel),
	}
	if in.FlightID <= 0 {
		return req, fmt.Errorf("%w: flight_id must be positive", domain.ErrValidation)
	}
	if req.name == "" {
		return req, fmt.Errorf("%w: passenger_name is required", domain.ErrValidation)
	}
	if !strings.Contains(req.email, "@") {
		return req, fmt.Errorf("%w: passenger_email must be a valid email address", domain.ErrValidation)
	}
	if in.CheckedBags < 0 {
		return req, fmt.Errorf("%w: checked_bags cannot be negative", domain.ErrValidation)
	}
	date, err := domain.ParseTravelDate(in.TravelDate)
	if err != nil {
		return req, err
	}
	cabin, err := domain.ParseCabinClass(in.CabinClass)
	if err != nil {
		return req, err
	}
	req.key = domain.SlotKey{FlightID: in.FlightID, FlightDate: date, CabinClass: cabin}
	return req, nil
}

// CreateBooking books one seat in a single transaction: passenger, flight,
// locked slot, price, booking row and seat decrement. Any failure rolls the
// whole transaction back.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*Confirmation, error) {
	req, err := input.validate()
	if err != nil {
		return nil, err
	}

	var (
		booking domain.Booking
		flight  *domain.Flight
	)
	err = s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		passenger, err := s.findOrCreatePassenger(ctx, tx, req)
		if err != nil {
			return err
		}

		flight, err = tx.GetFlight(ctx, req.key.FlightID)
		if err != nil {
			return err
		}

		slot, err := tx.LockSlot(ctx, req.key)
		if err != nil {
			return err
		}
		if slot.AvailableSeats < 1 {
			return domain.ErrSeatUnavailable
		}

		quote := pricing.Calculate(slot.BasePrice, slot.PriceMultiplier, req.corporate, flight.Airline.CorporateDiscountPercent)

		booking = domain.Booking{
			PassengerID:       passenger.ID,
			FlightID:          req.key.FlightID,
			FlightDate:        req.key.FlightDate,
			CabinClass:        req.key.CabinClass,
			SeatNumber:        s.ids.SeatNumber(),
			TicketPrice:       quote.FinalPrice,
			CorporateDiscount: quote.CorporateDiscountAmount,
			CheckedBags:       req.bags,
			Status:            domain.BookingStatusConfirmed,
			PurposeOfTravel:   req.purpose,
		}
		if err := s.insertBooking(ctx, tx, &booking, flight.Airline.Code); err != nil {
			return err
		}

		return tx.ReserveSeat(ctx, req.key)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking created",
		slog.String("booking_reference", booking.Reference),
		slog.Int64("flight_id", booking.FlightID),
		slog.String("cabin_class", string(booking.CabinClass)),
		slog.Float64("ticket_price", booking.TicketPrice))

	travelDate := booking.FlightDate.Format(domain.DateLayout)
	event := kafka.NewBookingEvent(kafka.EventBookingCreated, s.now())
	event.Reference = booking.Reference
	event.FlightID = booking.FlightID
	event.FlightNumber = flight.FlightNumber
	event.Route = flight.Route()
	event.FlightDate = travelDate
	event.CabinClass = string(booking.CabinClass)
	event.SeatNumber = booking.SeatNumber
	event.PassengerName = req.name
	event.Email = req.email
	event.Status = string(booking.Status)
	event.TicketPrice = booking.TicketPrice
	s.publish(ctx, event)

	return &Confirmation{
		Success:          true,
		BookingReference: booking.Reference,
		Status:           booking.Status,
		Details: ConfirmationDetails{
			PassengerName:     req.name,
			PassengerEmail:    req.email,
			IsCorporate:       req.corporate,
			Company:           req.company,
			FlightNumber:      flight.FlightNumber,
			Route:             flight.Route(),
			TravelDate:        travelDate,
			DepartureTime:     flight.DepartureTime,
			CabinClass:        booking.CabinClass,
			SeatNumber:        booking.SeatNumber,
			TicketPrice:       booking.TicketPrice,
			CorporateDiscount: booking.CorporateDiscount,
			CheckedBags:       booking.CheckedBags,
			Purpose:           booking.PurposeOfTravel,
		},
		Message: "Flight booking confirmed successfully",
	}, nil
}

// findOrCreatePassenger looks the email up and registers a new passenger
// when it is unknown. A lost insert race resolves to the winner's row.
func (s *BookingService) findOrCreatePassenger(ctx context.Context, tx repository.BookingTx, req bookingRequest) (*domain.Passenger, error) {
	existing, err := tx.FindPassengerByEmail(ctx, req.email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrPassengerNotFound) {
		return nil, err
	}

	first, last := splitName(req.name)
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		p := &domain.Passenger{
			Code:        s.ids.PassengerCode(req.corporate),
			FirstName:   first,
			LastName:    last,
			Email:       req.email,
			IsCorporate: req.corporate,
			CompanyName: req.company,
		}
		created, err := tx.CreatePassenger(ctx, p)
		if err != nil {
			return nil, err
		}
		if created {
			return p, nil
		}

		existing, err := tx.FindPassengerByEmail(ctx, req.email)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrPassengerNotFound) {
			return nil, err
		}
		s.log.DebugContext(ctx, "passenger code taken, retrying", slog.String("passenger_code", p.Code))
	}
	return nil, fmt.Errorf("%w: no free passenger code after %d attempts", domain.ErrPersistence, maxIDAttempts)
}

func (s *BookingService) insertBooking(ctx context.Context, tx repository.BookingTx, b *domain.Booking, airlineCode string) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		b.Reference = s.ids.BookingReference(airlineCode, s.now().UTC())
		inserted, err := tx.InsertBooking(ctx, b)
		if err != nil {
			return err
		}
		if inserted {
			return nil
		}
		s.log.DebugContext(ctx, "booking reference taken, retrying", slog.String("booking_reference", b.Reference))
	}
	return fmt.Errorf("%w: no free booking reference after %d attempts", domain.ErrPersistence, maxIDAttempts)
}

// CancelBooking marks the booking cancelled and returns its seat to the
// originating slot in one transaction.
func (s *BookingService) CancelBooking(ctx context.Context, input CancelBookingInput) (*Cancellation, error) {
	reference := strings.TrimSpace(input.BookingReference)
	email := strings.TrimSpace(input.PassengerEmail)
	if reference == "" || email == "" {
		return nil, fmt.Errorf("%w: booking_reference and passenger_email are required", domain.ErrValidation)
	}

	var (
		booking   *domain.Booking
		passenger *domain.Passenger
	)
	err := s.bookings.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
		var err error
		passenger, err = tx.FindPassengerByEmail(ctx, email)
		if err != nil {
			return err
		}

		booking, err = tx.LockBooking(ctx, reference)
		if err != nil {
			return err
		}
		if booking.PassengerID != passenger.ID {
			return domain.ErrUnauthorized
		}
		if booking.Status == domain.BookingStatusCancelled {
			return domain.ErrAlreadyCancelled
		}

		if err := tx.SetStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
			return err
		}
		if err := tx.ReleaseSeat(ctx, booking.Slot()); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "booking cancelled", slog.String("booking_reference", booking.Reference))

	event := kafka.NewBookingEvent(kafka.EventBookingCancelled, s.now())
	event.Reference = booking.Reference
	event.FlightID = booking.FlightID
	event.FlightDate = booking.FlightDate.Format(domain.DateLayout)
	event.CabinClass = string(booking.CabinClass)
	event.SeatNumber = booking.SeatNumber
	event.PassengerName = passenger.FullName()
	event.Email = passenger.Email
	event.Status = string(booking.Status)
	event.TicketPrice = booking.TicketPrice
	s.publish(ctx, event)

	return &Cancellation{
		Success:          true,
		BookingReference: booking.Reference,
		Status:           booking.Status,
		Message:          "Flight booking cancelled successfully. Seat inventory restored.",
	}, nil
}

func (s *BookingService) GetBookingDetails(ctx context.Context, reference string) (*BookingRecord, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, fmt.Errorf("%w: booking_reference is required", domain.ErrValidation)
	}

	d, err := s.bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	record := &BookingRecord{
		BookingID:         d.ID,
		BookingReference:  d.Reference,
		BookingStatus:     d.Status,
		FlightDate:        d.FlightDate.Format(domain.DateLayout),
		CabinClass:        d.CabinClass,
		SeatNumber:        d.SeatNumber,
		TicketPrice:       d.TicketPrice,
		CorporateDiscount: d.CorporateDiscount,
		CheckedBags:       d.CheckedBags,
		PurposeOfTravel:   d.PurposeOfTravel,
		BookedAt:          d.BookedAt,
		PassengerName:     d.Passenger.FullName(),
		Email:             d.Passenger.Email,
		IsCorporate:       d.Passenger.IsCorporate,
		CompanyName:       d.Passenger.CompanyName,
		Flight:            d.Flight,
		DurationHours:     d.Flight.DurationHours(),
	}

	if s.baggage != nil {
		allowance, err := s.baggage.BaggageAllowance(ctx, d.Flight.Airline.Code, d.CabinClass)
		switch {
		case err == nil:
			record.BaggageAllowance = allowance
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}
	return record, nil
}

// ListBookingsByEmail returns upcoming bookings, latest first. An unknown
// email yields an empty listing rather than an error.
func (s *BookingService) ListBookingsByEmail(ctx context.Context, input ListBookingsInput) (*PassengerBookings, error) {
	email := strings.TrimSpace(input.PassengerEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: passenger_email is required", domain.ErrValidation)
	}
	status, err := domain.ParseBookingStatus(input.Status)
	if err != nil {
		return nil, err
	}

	passenger, err := s.bookings.FindPassengerByEmail(ctx, email)
	if errors.Is(err, domain.ErrPassengerNotFound) {
		return &PassengerBookings{
			Message:  "No bookings found for this email address",
			Bookings: []BookingSummary{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	details, err := s.bookings.ListByPassenger(ctx, domain.BookingFilter{
		PassengerID: passenger.ID,
		Status:      status,
		IncludePast: input.IncludePast,
		Today:       domain.Today(s.now()),
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]BookingSummary, 0, len(details))
	for _, d := range details {
		summaries = append(summaries, BookingSummary{
			BookingReference: d.Reference,
			BookingStatus:    d.Status,
			FlightDate:       d.FlightDate.Format(domain.DateLayout),
			AirlineName:      d.Flight.Airline.Name,
			FlightNumber:     d.Flight.FlightNumber,
			OriginCity:       d.Flight.Origin.City,
			DestinationCity:  d.Flight.Destination.City,
			DepartureTime:    d.Flight.DepartureTime,
			ArrivalTime:      d.Flight.ArrivalTime,
			CabinClass:       d.CabinClass,
			SeatNumber:       d.SeatNumber,
			TicketPrice:      d.TicketPrice,
			PurposeOfTravel:  d.PurposeOfTravel,
		})
	}

	return &PassengerBookings{
		PassengerSummary: &PassengerSummary{
			PassengerName:  passenger.FullName(),
			PassengerEmail: passenger.Email,
			IsCorporate:    passenger.IsCorporate,
			Company:        passenger.CompanyName,
		},
		BookingsCount: len(summaries),
		Bookings:      summaries,
	}, nil
}

// CompleteDepartedBookings marks confirmed bookings for flights before today
// as completed.
func (s *BookingService) CompleteDepartedBookings(ctx context.Context) (int, error) {
	completed, err := s.bookings.CompleteDeparted(ctx, domain.Today(s.now()))
	if err != nil {
		return 0, err
	}
	if len(completed) > 0 {
		s.log.InfoContext(ctx, "bookings completed", slog.Int("count", len(completed)))
	}
	return len(completed), nil
}

// publish is best effort: the booking is already committed.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, event.Reference, event); err != nil {
		s.log.WarnContext(ctx, "failed to publish booking event",
			slog.String("type", event.Type),
			slog.String("booking_reference", event.Reference),
			slog.Any("error", err))
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.Reference, event); err != nil {
			s.log.WarnContext(ctx, "failed to publish notification",
				slog.String("type", event.Type),
				slog.String("booking_reference", event.Reference),
				slog.Any("error", err))
		}
	}
}

func splitName(name string) (first, last string) {
	first, last, _ = strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(last)
}

var _ BookingUseCase = (*BookingService)(nil)
