package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Search(ctx context.Context, c domain.SearchCriteria) ([]domain.FlightOffer, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	GetOffer(ctx context.Context, key domain.SlotKey) (*domain.FlightOffer, error)
	ListInventory(ctx context.Context, flightID int64, date time.Time) ([]domain.InventorySlot, error)
	RouteOptions(ctx context.Context, originCity, destinationCity string) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const slotColumns = `, fi.flight_date, fi.cabin_class, fi.base_price::float8, fi.price_multiplier::float8, fi.available_seats`

func slotDest(s *domain.InventorySlot) []any {
	return []any{&s.FlightDate, &s.CabinClass, &s.BasePrice, &s.PriceMultiplier, &s.AvailableSeats}
}

// Search returns flights with at least one seat left, cheapest first.
func (r *PGFlightRepository) Search(ctx context.Context, c domain.SearchCriteria) ([]domain.FlightOffer, error) {
	query := `SELECT ` + flightColumns + slotColumns + flightJoins + `
		JOIN flight_inventory fi ON f.flight_id = fi.flight_id
		WHERE LOWER(orig.city) = LOWER($1)
			AND LOWER(dest.city) = LOWER($2)
			AND fi.flight_date = $3
			AND fi.cabin_class = $4
			AND fi.available_seats > 0
			AND (NOT $5 OR al.is_preferred_vendor)
		ORDER BY fi.base_price * fi.price_multiplier ASC, f.flight_id`

	rows, err := r.db.Query(ctx, query, c.OriginCity, c.DestinationCity, c.TravelDate, string(c.CabinClass), c.PreferredOnly)
	if err != nil {
		return nil, persistErr("search flights", err)
	}
	defer rows.Close()

	offers := make([]domain.FlightOffer, 0)
	for rows.Next() {
		var o domain.FlightOffer
		if err := rows.Scan(append(flightDest(&o.Flight), slotDest(&o.Slot)...)...); err != nil {
			return nil, persistErr("scan flight offer", err)
		}
		o.Slot.FlightID = o.ID
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("search flights", err)
	}
	return offers, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return getFlight(ctx, r.db, id)
}

// GetOffer returns ErrInventoryNotFound when the flight has no slot for the
// given date and cabin, whether or not the flight itself exists.
func (r *PGFlightRepository) GetOffer(ctx context.Context, key domain.SlotKey) (*domain.FlightOffer, error) {
	query := `SELECT ` + flightColumns + slotColumns + flightJoins + `
		JOIN flight_inventory fi ON f.flight_id = fi.flight_id
		WHERE f.flight_id = $1 AND fi.flight_date = $2 AND fi.cabin_class = $3`

	var o domain.FlightOffer
	row := r.db.QueryRow(ctx, query, key.FlightID, key.FlightDate, string(key.CabinClass))
	if err := row.Scan(append(flightDest(&o.Flight), slotDest(&o.Slot)...)...); err != nil {
		return nil, notFoundOr("get flight offer", err, domain.ErrInventoryNotFound)
	}
	o.Slot.FlightID = o.ID
	return &o, nil
}

func (r *PGFlightRepository) ListInventory(ctx context.Context, flightID int64, date time.Time) ([]domain.InventorySlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fi.flight_date, fi.cabin_class, fi.base_price::float8, fi.price_multiplier::float8, fi.available_seats
		FROM flight_inventory fi
		WHERE fi.flight_id = $1 AND fi.flight_date = $2
		ORDER BY CASE fi.cabin_class
			WHEN 'economy' THEN 1
			WHEN 'premium_economy' THEN 2
			WHEN 'business' THEN 3
			WHEN 'first' THEN 4
			ELSE 5
		END`, flightID, date)
	if err != nil {
		return nil, persistErr("list inventory", err)
	}
	defer rows.Close()

	slots := make([]domain.InventorySlot, 0, len(domain.CabinClasses))
	for rows.Next() {
		s := domain.InventorySlot{SlotKey: domain.SlotKey{FlightID: flightID}}
		if err := rows.Scan(slotDest(&s)...); err != nil {
			return nil, persistErr("scan inventory", err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list inventory", err)
	}
	return slots, nil
}

func (r *PGFlightRepository) RouteOptions(ctx context.Context, originCity, destinationCity string) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+flightJoins+`
		WHERE LOWER(orig.city) = LOWER($1) AND LOWER(dest.city) = LOWER($2)
		ORDER BY al.airline_name, f.departure_time`, originCity, destinationCity)
	if err != nil {
		return nil, persistErr("route options", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(flightDest(&f)...); err != nil {
			return nil, persistErr("scan route", err)
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("route options", err)
	}
	return flights, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
