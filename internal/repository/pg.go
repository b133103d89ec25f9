package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func persistErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

// notFoundOr maps pgx.ErrNoRows to the given sentinel.
func notFoundOr(op string, err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return persistErr(op, err)
}

const flightColumns = `
	f.flight_id, f.flight_number, COALESCE(f.aircraft_type, ''),
	to_char(f.departure_time, 'HH24:MI'), to_char(f.arrival_time, 'HH24:MI'),
	f.duration_minutes, f.total_seats,
	al.airline_id, al.airline_code, al.airline_name, al.country,
	al.corporate_discount_percent::float8, al.is_preferred_vendor, COALESCE(al.hub_airport, ''),
	orig.airport_id, orig.airport_code, orig.airport_name, orig.city, COALESCE(orig.state, ''), orig.country, COALESCE(orig.timezone, ''),
	dest.airport_id, dest.airport_code, dest.airport_name, dest.city, COALESCE(dest.state, ''), dest.country, COALESCE(dest.timezone, '')`

const flightJoins = `
	FROM flights f
	JOIN airlines al ON f.airline_id = al.airline_id
	JOIN airports orig ON f.origin_airport_id = orig.airport_id
	JOIN airports dest ON f.destination_airport_id = dest.airport_id`

func flightDest(f *domain.Flight) []any {
	return []any{
		&f.ID, &f.FlightNumber, &f.AircraftType,
		&f.DepartureTime, &f.ArrivalTime,
		&f.DurationMinutes, &f.TotalSeats,
		&f.Airline.ID, &f.Airline.Code, &f.Airline.Name, &f.Airline.Country,
		&f.Airline.CorporateDiscountPercent, &f.Airline.IsPreferredVendor, &f.Airline.HubAirport,
		&f.Origin.ID, &f.Origin.Code, &f.Origin.Name, &f.Origin.City, &f.Origin.State, &f.Origin.Country, &f.Origin.Timezone,
		&f.Destination.ID, &f.Destination.Code, &f.Destination.Name, &f.Destination.City, &f.Destination.State, &f.Destination.Country, &f.Destination.Timezone,
	}
}

func getFlight(ctx context.Context, q querier, id int64) (*domain.Flight, error) {
	var f domain.Flight
	row := q.QueryRow(ctx, `SELECT `+flightColumns+flightJoins+` WHERE f.flight_id = $1`, id)
	if err := row.Scan(flightDest(&f)...); err != nil {
		return nil, notFoundOr("get flight", err, domain.ErrFlightNotFound)
	}
	return &f, nil
}
