package repository

import (
	"context"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepository serves reference data: airlines, airports and baggage rules.
type CatalogRepository interface {
	ListAirlines(ctx context.Context, country string) ([]domain.Airline, error)
	ListAirports(ctx context.Context, city, country string) ([]domain.Airport, error)
	ListAirportCities(ctx context.Context) ([]domain.CityAirports, error)
	GetBaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error)
}

type PGCatalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &PGCatalogRepository{db: db}
}

func (r *PGCatalogRepository) ListAirlines(ctx context.Context, country string) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, `
		SELECT airline_id, airline_code, airline_name, country,
			corporate_discount_percent::float8, is_preferred_vendor, COALESCE(hub_airport, '')
		FROM airlines
		WHERE $1 = '' OR LOWER(country) = LOWER($1)
		ORDER BY airline_name`, country)
	if err != nil {
		return nil, persistErr("list airlines", err)
	}

	airlines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Airline, error) {
		var a domain.Airline
		err := row.Scan(&a.ID, &a.Code, &a.Name, &a.Country, &a.CorporateDiscountPercent, &a.IsPreferredVendor, &a.HubAirport)
		return a, err
	})
	if err != nil {
		return nil, persistErr("scan airlines", err)
	}
	return airlines, nil
}

// ListAirports filters by city when given, otherwise by country.
func (r *PGCatalogRepository) ListAirports(ctx context.Context, city, country string) ([]domain.Airport, error) {
	query := `
		SELECT airport_id, airport_code, airport_name, city, COALESCE(state, ''), country, COALESCE(timezone, '')
		FROM airports`
	var arg string
	if city != "" {
		query += ` WHERE LOWER(city) = LOWER($1) ORDER BY airport_name`
		arg = city
	} else {
		query += ` WHERE LOWER(country) = LOWER($1) ORDER BY city, airport_name`
		arg = country
	}

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, persistErr("list airports", err)
	}

	airports, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Airport, error) {
		var a domain.Airport
		err := row.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.State, &a.Country, &a.Timezone)
		return a, err
	})
	if err != nil {
		return nil, persistErr("scan airports", err)
	}
	return airports, nil
}

func (r *PGCatalogRepository) ListAirportCities(ctx context.Context) ([]domain.CityAirports, error) {
	rows, err := r.db.Query(ctx, `
		SELECT city, COALESCE(state, ''), country, COUNT(airport_id)::int
		FROM airports
		GROUP BY city, state, country
		ORDER BY city`)
	if err != nil {
		return nil, persistErr("list airport cities", err)
	}

	cities, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CityAirports, error) {
		var c domain.CityAirports
		err := row.Scan(&c.City, &c.State, &c.Country, &c.AirportCount)
		return c, err
	})
	if err != nil {
		return nil, persistErr("scan airport cities", err)
	}
	return cities, nil
}

func (r *PGCatalogRepository) GetBaggageAllowance(ctx context.Context, airlineCode string, cabin domain.CabinClass) (*domain.BaggageAllowance, error) {
	var b domain.BaggageAllowance
	err := r.db.QueryRow(ctx, `
		SELECT al.airline_code, al.airline_name, ba.cabin_class,
			ba.checked_bags, ba.checked_bag_weight_kg, ba.carry_on_bags, ba.carry_on_weight_kg
		FROM baggage_allowance ba
		JOIN airlines al ON ba.airline_id = al.airline_id
		WHERE al.airline_code = $1 AND ba.cabin_class = $2`, airlineCode, string(cabin)).
		Scan(&b.AirlineCode, &b.AirlineName, &b.CabinClass, &b.CheckedBags, &b.CheckedBagWeightKg, &b.CarryOnBags, &b.CarryOnWeightKg)
	if err != nil {
		return nil, notFoundOr("get baggage allowance", err, domain.ErrBaggageNotFound)
	}
	return &b, nil
}

var _ CatalogRepository = (*PGCatalogRepository)(nil)
