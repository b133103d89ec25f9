package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.FlightOffer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightOffer), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetOffer(ctx context.Context, key domain.SlotKey) (*domain.FlightOffer, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightOffer), args.Error(1)
}

func (m *MockFlightRepository) ListInventory(ctx context.Context, flightID int64, date time.Time) ([]domain.InventorySlot, error) {
	args := m.Called(ctx, flightID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventorySlot), args.Error(1)
}

func (m *MockFlightRepository) RouteOptions(ctx context.Context, originCity, destinationCity string) ([]domain.Flight, error) {
	args := m.Called(ctx, originCity, destinationCity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockBaggageLookup struct {
	mock.Mock
}

func (m *MockBaggageLookup) BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error) {
	args := m.Called(ctx, airlineCode, cabin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BaggageAllowance), args.Error(1)
}

var travelDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testFlight(id int64, airlineCode string, discount float64) domain.Flight {
	return domain.Flight{
		ID:              id,
		FlightNumber:    airlineCode + "100",
		DepartureTime:   "08:00",
		ArrivalTime:     "20:00",
		DurationMinutes: 420,
		TotalSeats:      200,
		Airline:         domain.Airline{ID: id, Code: airlineCode, Name: airlineCode + " Airways", CorporateDiscountPercent: discount},
		Origin:          domain.Airport{Code: "JFK", City: "New York"},
		Destination:     domain.Airport{Code: "LHR", City: "London"},
	}
}

func testOffer(f domain.Flight, cabin domain.CabinClass, base, mult float64, seats int) domain.FlightOffer {
	return domain.FlightOffer{
		Flight: f,
		Slot: domain.InventorySlot{
			SlotKey:         domain.SlotKey{FlightID: f.ID, FlightDate: travelDate, CabinClass: cabin},
			BasePrice:       base,
			PriceMultiplier: mult,
			AvailableSeats:  seats,
		},
	}
}

// Тест 1: поиск с корпоративной скидкой и багажом
func TestFlightService_Search_PricesAndBaggage(t *testing.T) {
	repo := &MockFlightRepository{}
	baggage := &MockBaggageLookup{}
	service := NewFlightService(repo, baggage)
	ctx := context.Background()

	criteria := domain.SearchCriteria{
		OriginCity:      "New York",
		DestinationCity: "London",
		TravelDate:      travelDate,
		CabinClass:      domain.CabinBusiness,
	}
	offers := []domain.FlightOffer{testOffer(testFlight(1, "AA", 15), domain.CabinBusiness, 500, 1.2, 9)}
	allowance := &domain.BaggageAllowance{CabinClass: domain.CabinBusiness, CheckedBags: 2}

	repo.On("Search", ctx, criteria).Return(offers, nil).Once()
	baggage.On("BaggageAllowance", ctx, "AA", domain.CabinBusiness).Return(allowance, nil).Once()

	got, err := service.Search(ctx, SearchInput{
		OriginCity:      " New York ",
		DestinationCity: "London",
		TravelDate:      "2026-03-01",
		CabinClass:      "business",
		IsCorporate:     true,
	})

	require.NoError(t, err)
	require.Equal(t, 1, got.ResultsCount)
	r := got.Flights[0]
	assert.Equal(t, 600.0, r.Pricing.DynamicPrice)
	assert.Equal(t, 90.0, r.Pricing.CorporateDiscountAmount)
	assert.Equal(t, 510.0, r.Pricing.FinalPrice)
	assert.Equal(t, 9, r.AvailableSeats)
	assert.Equal(t, 7.0, r.DurationHours)
	assert.Equal(t, allowance, r.BaggageAllowance)
	assert.Equal(t, "2026-03-01", got.Criteria.TravelDate)
	assert.True(t, got.Criteria.IsCorporateBooking)
	repo.AssertExpectations(t)
	baggage.AssertExpectations(t)
}

// Тест 2: max_price применяется к итоговой цене
func TestFlightService_Search_MaxPriceAfterPricing(t *testing.T) {
	repo := &MockFlightRepository{}
	baggage := &MockBaggageLookup{}
	service := NewFlightService(repo, baggage)
	ctx := context.Background()

	cheap := testOffer(testFlight(1, "AA", 20), domain.CabinEconomy, 400, 1.0, 5)
	pricey := testOffer(testFlight(2, "BA", 0), domain.CabinEconomy, 400, 1.0, 5)

	repo.On("Search", ctx, mock.AnythingOfType("domain.SearchCriteria")).Return([]domain.FlightOffer{cheap, pricey}, nil).Once()
	baggage.On("BaggageAllowance", ctx, "AA", domain.CabinEconomy).Return(nil, domain.ErrBaggageNotFound).Once()

	maxPrice := 350.0
	got, err := service.Search(ctx, SearchInput{
		OriginCity:      "New York",
		DestinationCity: "London",
		TravelDate:      "2026-03-01",
		IsCorporate:     true,
		MaxPrice:        &maxPrice,
	})

	require.NoError(t, err)
	require.Equal(t, 1, got.ResultsCount)
	assert.Equal(t, int64(1), got.Flights[0].ID)
	assert.Equal(t, 320.0, got.Flights[0].Pricing.FinalPrice)
	assert.Nil(t, got.Flights[0].BaggageAllowance)
	assert.Equal(t, domain.CabinEconomy, got.Criteria.CabinClass)
}

// Тест 3: пустой результат не является ошибкой
func TestFlightService_Search_NoInventory(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	repo.On("Search", ctx, mock.AnythingOfType("domain.SearchCriteria")).Return([]domain.FlightOffer{}, nil).Once()

	got, err := service.Search(ctx, SearchInput{OriginCity: "Paris", DestinationCity: "Tokyo", TravelDate: "2026-03-01"})

	require.NoError(t, err)
	assert.Equal(t, 0, got.ResultsCount)
	assert.NotNil(t, got.Flights)
	assert.Empty(t, got.Flights)
}

func TestFlightService_Search_Validation(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)
	ctx := context.Background()

	cases := []SearchInput{
		{DestinationCity: "London", TravelDate: "2026-03-01"},
		{OriginCity: "New York", DestinationCity: "London", TravelDate: "March 1"},
		{OriginCity: "New York", DestinationCity: "London", TravelDate: "2026-03-01", CabinClass: "steerage"},
	}
	for _, in := range cases {
		_, err := service.Search(ctx, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
}

func TestFlightService_Search_BaggageFailure(t *testing.T) {
	repo := &MockFlightRepository{}
	baggage := &MockBaggageLookup{}
	service := NewFlightService(repo, baggage)
	ctx := context.Background()

	offers := []domain.FlightOffer{testOffer(testFlight(1, "AA", 0), domain.CabinEconomy, 100, 1, 1)}
	repo.On("Search", ctx, mock.AnythingOfType("domain.SearchCriteria")).Return(offers, nil).Once()
	baggage.On("BaggageAllowance", ctx, "AA", domain.CabinEconomy).Return(nil, domain.ErrPersistence).Once()

	_, err := service.Search(ctx, SearchInput{OriginCity: "New York", DestinationCity: "London", TravelDate: "2026-03-01"})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestFlightService_Details(t *testing.T) {
	repo := &MockFlightRepository{}
	baggage := &MockBaggageLookup{}
	service := NewFlightService(repo, baggage)
	ctx := context.Background()

	flight := testFlight(3, "LH", 10)
	slots := []domain.InventorySlot{
		{SlotKey: domain.SlotKey{FlightID: 3, FlightDate: travelDate, CabinClass: domain.CabinEconomy}, BasePrice: 300, PriceMultiplier: 1.1, AvailableSeats: 40},
		{SlotKey: domain.SlotKey{FlightID: 3, FlightDate: travelDate, CabinClass: domain.CabinFirst}, BasePrice: 3000, PriceMultiplier: 1, AvailableSeats: 0},
	}

	repo.On("GetByID", ctx, int64(3)).Return(&flight, nil).Once()
	repo.On("ListInventory", ctx, int64(3), travelDate).Return(slots, nil).Once()
	baggage.On("BaggageAllowance", ctx, "LH", domain.CabinEconomy).Return(&domain.BaggageAllowance{CheckedBags: 1}, nil).Once()
	baggage.On("BaggageAllowance", ctx, "LH", domain.CabinFirst).Return(nil, domain.ErrBaggageNotFound).Once()

	got, err := service.Details(ctx, SlotInput{FlightID: 3, TravelDate: "2026-03-01"})

	require.NoError(t, err)
	require.Len(t, got.CabinAvailability, 2)
	assert.Equal(t, 330.0, got.CabinAvailability[0].Pricing.FinalPrice)
	assert.Equal(t, 1, got.CabinAvailability[0].BaggageAllowance.CheckedBags)
	assert.Nil(t, got.CabinAvailability[1].BaggageAllowance)
	assert.Equal(t, 0, got.CabinAvailability[1].AvailableSeats)
	assert.False(t, got.PricingIsCorporate)
	assert.Equal(t, "2026-03-01", got.TravelDate)
}

func TestFlightService_Details_FlightNotFound(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrFlightNotFound).Once()

	_, err := service.Details(ctx, SlotInput{FlightID: 99, TravelDate: "2026-03-01"})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "ListInventory", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Availability(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	key := domain.SlotKey{FlightID: 1, FlightDate: travelDate, CabinClass: domain.CabinPremiumEconomy}
	offer := testOffer(testFlight(1, "AA", 15), domain.CabinPremiumEconomy, 400, 1.25, 0)
	repo.On("GetOffer", ctx, key).Return(&offer, nil).Once()

	got, err := service.Availability(ctx, SlotInput{FlightID: 1, TravelDate: "2026-03-01", CabinClass: "premium_economy"})

	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	assert.Equal(t, 0, got.AvailableSeats)
	assert.Equal(t, 500.0, got.CurrentPrice)
	assert.Equal(t, "New York to London", got.Route)
	assert.Equal(t, "AA Airways", got.Airline)
}

func TestFlightService_Availability_NoSlot(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	repo.On("GetOffer", ctx, mock.AnythingOfType("domain.SlotKey")).Return(nil, domain.ErrInventoryNotFound).Once()

	_, err := service.Availability(ctx, SlotInput{FlightID: 1, TravelDate: "2026-03-01"})

	assert.ErrorIs(t, err, domain.ErrInventoryNotFound)
}

func TestFlightService_Cost(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	offer := testOffer(testFlight(1, "AA", 15), domain.CabinEconomy, 500, 1.2, 3)
	repo.On("GetOffer", ctx, offer.Slot.SlotKey).Return(&offer, nil).Once()

	got, err := service.Cost(ctx, SlotInput{FlightID: 1, TravelDate: "2026-03-01", IsCorporate: true})

	require.NoError(t, err)
	assert.Equal(t, 500.0, got.CostBreakdown.BasePrice)
	assert.Equal(t, 600.0, got.CostBreakdown.DynamicPrice)
	assert.Equal(t, 15.0, got.CostBreakdown.CorporateDiscountPercent)
	assert.Equal(t, 90.0, got.CostBreakdown.CorporateDiscountAmount)
	assert.Equal(t, 510.0, got.CostBreakdown.FinalPrice)
	assert.True(t, got.IsCorporateBooking)
	assert.Equal(t, domain.CabinEconomy, got.TravelDetails.CabinClass)
}

func TestFlightService_SlotValidation(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)
	ctx := context.Background()

	_, err := service.Cost(ctx, SlotInput{FlightID: 0, TravelDate: "2026-03-01"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Availability(ctx, SlotInput{FlightID: 1, TravelDate: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFlightService_RouteOptions(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	repo.On("RouteOptions", ctx, "New York", "London").Return([]domain.Flight{testFlight(1, "AA", 0), testFlight(2, "BA", 0)}, nil).Once()

	got, err := service.RouteOptions(ctx, "New York", "London")

	require.NoError(t, err)
	assert.Equal(t, 2, got.RoutesCount)
	assert.Equal(t, "New York to London", got.Route)
	assert.Empty(t, got.Message)
	assert.Equal(t, 7.0, got.Routes[0].DurationHours)
}

func TestFlightService_RouteOptions_None(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	repo.On("RouteOptions", ctx, "Paris", "Sydney").Return([]domain.Flight{}, nil).Once()

	got, err := service.RouteOptions(ctx, "Paris", "Sydney")

	require.NoError(t, err)
	assert.Equal(t, 0, got.RoutesCount)
	assert.Equal(t, "No direct flights found between Paris and Sydney", got.Message)
	assert.NotNil(t, got.Routes)
}

func TestFlightService_RouteOptions_RepoError(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	boom := errors.New("db down")
	repo.On("RouteOptions", ctx, "A", "B").Return(nil, boom).Once()

	_, err := service.RouteOptions(ctx, "A", "B")

	assert.ErrorIs(t, err, boom)
}
