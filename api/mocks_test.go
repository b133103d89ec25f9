package api

import (
	"context"
	"io"
	"log/slog"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/catalog"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Search(ctx context.Context, in flights.SearchInput) (*flights.SearchResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.SearchResult), args.Error(1)
}

func (m *MockFlightUseCase) Details(ctx context.Context, in flights.SlotInput) (*flights.FlightDetails, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.FlightDetails), args.Error(1)
}

func (m *MockFlightUseCase) Availability(ctx context.Context, in flights.SlotInput) (*flights.Availability, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.Availability), args.Error(1)
}

func (m *MockFlightUseCase) Cost(ctx context.Context, in flights.SlotInput) (*flights.CostBreakdown, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.CostBreakdown), args.Error(1)
}

func (m *MockFlightUseCase) RouteOptions(ctx context.Context, originCity, destinationCity string) (*flights.RouteOptions, error) {
	args := m.Called(ctx, originCity, destinationCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*flights.RouteOptions), args.Error(1)
}

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, in booking.CreateBookingInput) (*booking.Confirmation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Confirmation), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, in booking.CancelBookingInput) (*booking.Cancellation, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Cancellation), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingDetails(ctx context.Context, reference string) (*booking.BookingRecord, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.BookingRecord), args.Error(1)
}

func (m *MockBookingUseCase) ListBookingsByEmail(ctx context.Context, in booking.ListBookingsInput) (*booking.PassengerBookings, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.PassengerBookings), args.Error(1)
}

func (m *MockBookingUseCase) CompleteDepartedBookings(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCatalogUseCase is a mock implementation of catalog.CatalogUseCase
type MockCatalogUseCase struct {
	mock.Mock
}

func (m *MockCatalogUseCase) Airlines(ctx context.Context, country string) (*catalog.AirlineList, error) {
	args := m.Called(ctx, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AirlineList), args.Error(1)
}

func (m *MockCatalogUseCase) Airports(ctx context.Context, city, country string) (*catalog.AirportList, error) {
	args := m.Called(ctx, city, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.AirportList), args.Error(1)
}

func (m *MockCatalogUseCase) BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error) {
	args := m.Called(ctx, airlineCode, cabin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaggageAllowance), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
