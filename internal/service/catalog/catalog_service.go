package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/cache"
	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

type CatalogUseCase interface {
	Airlines(ctx context.Context, country string) (*AirlineList, error)
	Airports(ctx context.Context, city, country string) (*AirportList, error)
	BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error)
}

// Cache is a read-through store for reference data. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type AirlineList struct {
	AirlinesCount int              `json:"airlines_count"`
	Airlines      []domain.Airline `json:"airlines"`
}

// AirportList holds []domain.Airport when filtered by city or country and
// []domain.CityAirports otherwise.
type AirportList struct {
	AirportsCount int `json:"airports_count"`
	Airports      any `json:"airports"`
}

type CatalogService struct {
	repo  repository.CatalogRepository
	cache Cache
	log   *slog.Logger
}

func NewCatalogService(repo repository.CatalogRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: cache, log: log}
}

func (s *CatalogService) Airlines(ctx context.Context, country string) (*AirlineList, error) {
	country = strings.TrimSpace(country)
	airlines, err := readThrough(ctx, s, cache.Key("airlines", country), func() ([]domain.Airline, error) {
		return s.repo.ListAirlines(ctx, country)
	})
	if err != nil {
		return nil, err
	}
	return &AirlineList{AirlinesCount: len(airlines), Airlines: nonNil(airlines)}, nil
}

// Airports filters by city first, then by country. With neither it lists
// cities and how many airports each has.
func (s *CatalogService) Airports(ctx context.Context, city, country string) (*AirportList, error) {
	city, country = strings.TrimSpace(city), strings.TrimSpace(country)

	if city == "" && country == "" {
		cities, err := readThrough(ctx, s, cache.Key("airports", "cities"), func() ([]domain.CityAirports, error) {
			return s.repo.ListAirportCities(ctx)
		})
		if err != nil {
			return nil, err
		}
		return &AirportList{AirportsCount: len(cities), Airports: nonNil(cities)}, nil
	}

	key := cache.Key("airports", "country", country)
	if city != "" {
		key = cache.Key("airports", "city", city)
	}
	airports, err := readThrough(ctx, s, key, func() ([]domain.Airport, error) {
		return s.repo.ListAirports(ctx, city, country)
	})
	if err != nil {
		return nil, err
	}
	return &AirportList{AirportsCount: len(airports), Airports: nonNil(airports)}, nil
}

func (s *CatalogService) BaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error) {
	airlineCode = strings.TrimSpace(airlineCode)
	if airlineCode == "" {
		return nil, fmt.Errorf("%w: airline_code is required", domain.ErrValidation)
	}

	key := cache.Key("baggage", airlineCode, string(cabin))
	if s.cache != nil {
		var cached domain.BaggageAllowance
		if ok, err := s.cache.Get(ctx, key, &cached); err == nil && ok {
			return &cached, nil
		} else if err != nil {
			s.log.WarnContext(ctx, "catalog cache read failed", slog.String("key", key), slog.Any("error", err))
		}
	}

	allowance, err := s.repo.GetBaggageAllowance(ctx, airlineCode, cabin)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, allowance)
	return allowance, nil
}

func readThrough[T any](ctx context.Context, s *CatalogService, key string, load func() ([]T, error)) ([]T, error) {
	if s.cache != nil {
		var cached []T
		ok, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.WarnContext(ctx, "catalog cache read failed", slog.String("key", key), slog.Any("error", err))
		} else if ok {
			return cached, nil
		}
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, items)
	return items, nil
}

func (s *CatalogService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WarnContext(ctx, "catalog cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

var _ CatalogUseCase = (*CatalogService)(nil)
