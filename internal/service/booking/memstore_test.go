package booking

import (
	"context"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

// memStore is an in-memory BookingRepository. Transactions run one at a time
// against a copy of the state that is swapped in on success, which gives the
// same outcome as row locks plus rollback.
type memStore struct {
	txMu sync.Mutex

	mu         sync.Mutex
	passengers map[int64]domain.Passenger
	flights    map[int64]domain.Flight
	slots      map[domain.SlotKey]domain.InventorySlot
	bookings   map[string]domain.Booking
	nextID     int64

	// failReserve, when set, is returned by ReserveSeat.
	failReserve error
}

func newMemStore() *memStore {
	return &memStore{
		passengers: map[int64]domain.Passenger{},
		flights:    map[int64]domain.Flight{},
		slots:      map[domain.SlotKey]domain.InventorySlot{},
		bookings:   map[string]domain.Booking{},
	}
}

func (m *memStore) addFlight(f domain.Flight) {
	m.flights[f.ID] = f
}

func (m *memStore) addSlot(s domain.InventorySlot) {
	m.slots[s.SlotKey] = s
}

func (m *memStore) seats(key domain.SlotKey) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[key].AvailableSeats
}

func (m *memStore) booking(ref string) (domain.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[ref]
	return b, ok
}

func (m *memStore) counts() (passengers, bookings int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.passengers), len(m.bookings)
}

func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.BookingTx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	tx := &memTx{
		store:      m,
		passengers: maps.Clone(m.passengers),
		slots:      maps.Clone(m.slots),
		bookings:   maps.Clone(m.bookings),
		nextID:     m.nextID,
	}
	m.mu.Unlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	m.mu.Lock()
	m.passengers, m.slots, m.bookings, m.nextID = tx.passengers, tx.slots, tx.bookings, tx.nextID
	m.mu.Unlock()
	return nil
}

func (m *memStore) GetByReference(_ context.Context, reference string) (*domain.BookingDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[reference]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &domain.BookingDetails{Booking: b, Passenger: m.passengers[b.PassengerID], Flight: m.flights[b.FlightID]}, nil
}

func (m *memStore) FindPassengerByEmail(_ context.Context, email string) (*domain.Passenger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return findByEmail(m.passengers, email)
}

func (m *memStore) ListByPassenger(_ context.Context, f domain.BookingFilter) ([]domain.BookingDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BookingDetails
	for _, b := range m.bookings {
		if b.PassengerID != f.PassengerID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if !f.IncludePast && b.FlightDate.Before(f.Today) {
			continue
		}
		out = append(out, domain.BookingDetails{Booking: b, Passenger: m.passengers[b.PassengerID], Flight: m.flights[b.FlightID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlightDate.After(out[j].FlightDate) })
	return out, nil
}

func (m *memStore) CompleteDeparted(_ context.Context, before time.Time) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var done []domain.Booking
	for ref, b := range m.bookings {
		if b.Status == domain.BookingStatusConfirmed && b.FlightDate.Before(before) {
			b.Status = domain.BookingStatusCompleted
			m.bookings[ref] = b
			done = append(done, b)
		}
	}
	return done, nil
}

func findByEmail(passengers map[int64]domain.Passenger, email string) (*domain.Passenger, error) {
	for _, p := range passengers {
		if strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, domain.ErrPassengerNotFound
}

type memTx struct {
	store      *memStore
	passengers map[int64]domain.Passenger
	slots      map[domain.SlotKey]domain.InventorySlot
	bookings   map[string]domain.Booking
	nextID     int64
}

func (t *memTx) FindPassengerByEmail(_ context.Context, email string) (*domain.Passenger, error) {
	return findByEmail(t.passengers, email)
}

func (t *memTx) CreatePassenger(_ context.Context, p *domain.Passenger) (bool, error) {
	for _, existing := range t.passengers {
		if existing.Code == p.Code || strings.EqualFold(existing.Email, p.Email) {
			return false, nil
		}
	}
	t.nextID++
	p.ID = t.nextID
	t.passengers[p.ID] = *p
	return true, nil
}

func (t *memTx) GetFlight(_ context.Context, flightID int64) (*domain.Flight, error) {
	f, ok := t.store.flights[flightID]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return &f, nil
}

func (t *memTx) LockSlot(_ context.Context, key domain.SlotKey) (*domain.InventorySlot, error) {
	s, ok := t.slots[key]
	if !ok {
		return nil, domain.ErrInventoryNotFound
	}
	return &s, nil
}

func (t *memTx) InsertBooking(_ context.Context, b *domain.Booking) (bool, error) {
	if _, taken := t.bookings[b.Reference]; taken {
		return false, nil
	}
	t.nextID++
	b.ID = t.nextID
	b.BookedAt = fixedNow
	t.bookings[b.Reference] = *b
	return true, nil
}

func (t *memTx) ReserveSeat(_ context.Context, key domain.SlotKey) error {
	if t.store.failReserve != nil {
		return t.store.failReserve
	}
	s, ok := t.slots[key]
	if !ok || s.AvailableSeats <= 0 {
		return domain.ErrSeatUnavailable
	}
	s.AvailableSeats--
	t.slots[key] = s
	return nil
}

func (t *memTx) LockBooking(_ context.Context, reference string) (*domain.Booking, error) {
	b, ok := t.bookings[reference]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (t *memTx) SetStatus(_ context.Context, bookingID int64, status domain.BookingStatus) error {
	for ref, b := range t.bookings {
		if b.ID == bookingID {
			b.Status = status
			t.bookings[ref] = b
			return nil
		}
	}
	return domain.ErrBookingNotFound
}

func (t *memTx) ReleaseSeat(_ context.Context, key domain.SlotKey) error {
	s, ok := t.slots[key]
	if !ok {
		return domain.ErrInventoryNotFound
	}
	s.AvailableSeats++
	t.slots[key] = s
	return nil
}

var (
	_ repository.BookingRepository = (*memStore)(nil)
	_ repository.BookingTx         = (*memTx)(nil)
)
