package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// WithinTx runs fn in one read-committed transaction. The transaction is
	// committed when fn returns nil and rolled back on every other path.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error
	GetByReference(ctx context.Context, reference string) (*domain.BookingDetails, error)
	FindPassengerByEmail(ctx context.Context, email string) (*domain.Passenger, error)
	ListByPassenger(ctx context.Context, filter domain.BookingFilter) ([]domain.BookingDetails, error)
	CompleteDeparted(ctx context.Context, before time.Time) ([]domain.Booking, error)
}

// BookingTx holds the statements of the booking and cancellation transactions.
type BookingTx interface {
	FindPassengerByEmail(ctx context.Context, email string) (*domain.Passenger, error)
	// CreatePassenger reports false when the email or passenger code is taken.
	CreatePassenger(ctx context.Context, p *domain.Passenger) (bool, error)
	GetFlight(ctx context.Context, flightID int64) (*domain.Flight, error)
	LockSlot(ctx context.Context, key domain.SlotKey) (*domain.InventorySlot, error)
	// InsertBooking reports false when the booking reference is taken.
	InsertBooking(ctx context.Context, b *domain.Booking) (bool, error)
	ReserveSeat(ctx context.Context, key domain.SlotKey) error
	LockBooking(ctx context.Context, reference string) (*domain.Booking, error)
	SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
	ReleaseSeat(ctx context.Context, key domain.SlotKey) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return persistErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &pgBookingTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

const bookingColumns = `
	fb.booking_id, fb.booking_reference, fb.passenger_id, fb.flight_id, fb.flight_date,
	fb.cabin_class, COALESCE(fb.seat_number, ''), fb.ticket_price::float8, fb.corporate_discount::float8,
	fb.checked_bags, fb.booking_status, fb.purpose_of_travel, fb.booked_at`

func bookingDest(b *domain.Booking) []any {
	return []any{
		&b.ID, &b.Reference, &b.PassengerID, &b.FlightID, &b.FlightDate,
		&b.CabinClass, &b.SeatNumber, &b.TicketPrice, &b.CorporateDiscount,
		&b.CheckedBags, &b.Status, &b.PurposeOfTravel, &b.BookedAt,
	}
}

const passengerColumns = `p.passenger_id, p.passenger_code, p.first_name, p.last_name, p.email, p.is_corporate, COALESCE(p.company_name, '')`

func passengerDest(p *domain.Passenger) []any {
	return []any{&p.ID, &p.Code, &p.FirstName, &p.LastName, &p.Email, &p.IsCorporate, &p.CompanyName}
}

func findPassengerByEmail(ctx context.Context, q querier, email string) (*domain.Passenger, error) {
	var p domain.Passenger
	row := q.QueryRow(ctx, `SELECT `+passengerColumns+` FROM passengers p WHERE LOWER(p.email) = LOWER($1) ORDER BY p.passenger_id LIMIT 1`, email)
	if err := row.Scan(passengerDest(&p)...); err != nil {
		return nil, notFoundOr("find passenger", err, domain.ErrPassengerNotFound)
	}
	return &p, nil
}

func (r *PGBookingRepository) FindPassengerByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	return findPassengerByEmail(ctx, r.db, email)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingDetails, error) {
	query := `SELECT ` + bookingColumns + `, ` + passengerColumns + `, ` + flightColumns + `
		FROM flight_bookings fb
		JOIN passengers p ON fb.passenger_id = p.passenger_id
		JOIN flights f ON fb.flight_id = f.flight_id
		JOIN airlines al ON f.airline_id = al.airline_id
		JOIN airports orig ON f.origin_airport_id = orig.airport_id
		JOIN airports dest ON f.destination_airport_id = dest.airport_id
		WHERE fb.booking_reference = $1`

	var d domain.BookingDetails
	if err := r.db.QueryRow(ctx, query, reference).Scan(detailsDest(&d)...); err != nil {
		return nil, notFoundOr("get booking", err, domain.ErrBookingNotFound)
	}
	return &d, nil
}

func detailsDest(d *domain.BookingDetails) []any {
	dest := bookingDest(&d.Booking)
	dest = append(dest, passengerDest(&d.Passenger)...)
	return append(dest, flightDest(&d.Flight)...)
}

// ListByPassenger returns the passenger's bookings, latest flight date first.
// Past flights are skipped unless filter.IncludePast is set.
func (r *PGBookingRepository) ListByPassenger(ctx context.Context, filter domain.BookingFilter) ([]domain.BookingDetails, error) {
	query := `SELECT ` + bookingColumns + `, ` + passengerColumns + `, ` + flightColumns + `
		FROM flight_bookings fb
		JOIN passengers p ON fb.passenger_id = p.passenger_id
		JOIN flights f ON fb.flight_id = f.flight_id
		JOIN airlines al ON f.airline_id = al.airline_id
		JOIN airports orig ON f.origin_airport_id = orig.airport_id
		JOIN airports dest ON f.destination_airport_id = dest.airport_id
		WHERE fb.passenger_id = $1
			AND ($2 = '' OR fb.booking_status = $2)
			AND ($3 OR fb.flight_date >= $4)
		ORDER BY fb.flight_date DESC, fb.booking_id DESC`

	rows, err := r.db.Query(ctx, query, filter.PassengerID, string(filter.Status), filter.IncludePast, filter.Today)
	if err != nil {
		return nil, persistErr("list bookings", err)
	}
	defer rows.Close()

	bookings := make([]domain.BookingDetails, 0)
	for rows.Next() {
		var d domain.BookingDetails
		if err := rows.Scan(detailsDest(&d)...); err != nil {
			return nil, persistErr("scan booking", err)
		}
		bookings = append(bookings, d)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("list bookings", err)
	}
	return bookings, nil
}

// CompleteDeparted moves confirmed bookings whose flight date is before the
// given day to completed.
func (r *PGBookingRepository) CompleteDeparted(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE flight_bookings fb
		SET booking_status = $1
		WHERE fb.booking_status = $2 AND fb.flight_date < $3
		RETURNING `+bookingColumns, domain.BookingStatusCompleted, domain.BookingStatusConfirmed, before)
	if err != nil {
		return nil, persistErr("complete departed", err)
	}
	defer rows.Close()

	var completed []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(bookingDest(&b)...); err != nil {
			return nil, persistErr("scan completed booking", err)
		}
		completed = append(completed, b)
	}
	if err := rows.Err(); err != nil {
		return nil, persistErr("complete departed", err)
	}
	return completed, nil
}

type pgBookingTx struct {
	tx pgx.Tx
}

func (t *pgBookingTx) FindPassengerByEmail(ctx context.Context, email string) (*domain.Passenger, error) {
	return findPassengerByEmail(ctx, t.tx, email)
}

func (t *pgBookingTx) CreatePassenger(ctx context.Context, p *domain.Passenger) (bool, error) {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO passengers (passenger_code, first_name, last_name, email, is_corporate, company_name)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		ON CONFLICT DO NOTHING
		RETURNING passenger_id`,
		p.Code, p.FirstName, p.LastName, p.Email, p.IsCorporate, p.CompanyName).Scan(&p.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, persistErr("create passenger", err)
	}
	return true, nil
}

func (t *pgBookingTx) GetFlight(ctx context.Context, flightID int64) (*domain.Flight, error) {
	return getFlight(ctx, t.tx, flightID)
}

// LockSlot reads the slot FOR UPDATE so concurrent bookings of the same slot
// queue behind this transaction.
func (t *pgBookingTx) LockSlot(ctx context.Context, key domain.SlotKey) (*domain.InventorySlot, error) {
	s := domain.InventorySlot{SlotKey: key}
	err := t.tx.QueryRow(ctx, `
		SELECT base_price::float8, price_multiplier::float8, available_seats
		FROM flight_inventory
		WHERE flight_id = $1 AND flight_date = $2 AND cabin_class = $3
		FOR UPDATE`, key.FlightID, key.FlightDate, string(key.CabinClass)).
		Scan(&s.BasePrice, &s.PriceMultiplier, &s.AvailableSeats)
	if err != nil {
		return nil, notFoundOr("lock inventory", err, domain.ErrInventoryNotFound)
	}
	return &s, nil
}

func (t *pgBookingTx) InsertBooking(ctx context.Context, b *domain.Booking) (bool, error) {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO flight_bookings (
			booking_reference, passenger_id, flight_id, flight_date, cabin_class, seat_number,
			ticket_price, corporate_discount, checked_bags, booking_status, purpose_of_travel
		) VALUES ($1, $2, $3, $4, $5, $6, $7::float8, $8::float8, $9, $10, $11)
		ON CONFLICT (booking_reference) DO NOTHING
		RETURNING booking_id, booked_at`,
		b.Reference, b.PassengerID, b.FlightID, b.FlightDate, string(b.CabinClass), b.SeatNumber,
		b.TicketPrice, b.CorporateDiscount, b.CheckedBags, string(b.Status), b.PurposeOfTravel).
		Scan(&b.ID, &b.BookedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, persistErr("insert booking", err)
	}
	return true, nil
}

// ReserveSeat decrements the slot only while a seat is left.
func (t *pgBookingTx) ReserveSeat(ctx context.Context, key domain.SlotKey) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE flight_inventory
		SET available_seats = available_seats - 1
		WHERE flight_id = $1 AND flight_date = $2 AND cabin_class = $3 AND available_seats > 0`,
		key.FlightID, key.FlightDate, string(key.CabinClass))
	if err != nil {
		return persistErr("reserve seat", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSeatUnavailable
	}
	return nil
}

func (t *pgBookingTx) LockBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	row := t.tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM flight_bookings fb WHERE fb.booking_reference = $1 FOR UPDATE`, reference)
	if err := row.Scan(bookingDest(&b)...); err != nil {
		return nil, notFoundOr("lock booking", err, domain.ErrBookingNotFound)
	}
	return &b, nil
}

func (t *pgBookingTx) SetStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE flight_bookings SET booking_status = $1 WHERE booking_id = $2`, string(status), bookingID)
	if err != nil {
		return persistErr("update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

func (t *pgBookingTx) ReleaseSeat(ctx context.Context, key domain.SlotKey) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE flight_inventory
		SET available_seats = available_seats + 1
		WHERE flight_id = $1 AND flight_date = $2 AND cabin_class = $3`,
		key.FlightID, key.FlightDate, string(key.CabinClass))
	if err != nil {
		return persistErr("release seat", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
