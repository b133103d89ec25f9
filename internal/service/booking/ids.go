package booking

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// IDSource produces the random parts of a booking.
type IDSource interface {
	// SeatNumber returns a seat in rows 1-40, letters A-F.
	SeatNumber() string
	// BookingReference returns {airline}-{YYYYMMDDHHMMSS}-{100..999}.
	BookingReference(airlineCode string, now time.Time) string
	// PassengerCode returns CORP#### or INDV####.
	PassengerCode(corporate bool) string
}

const seatLetters = "ABCDEF"

// RandomIDs draws from the runtime's ChaCha8 generator, which is seeded from
// the OS and safe for concurrent use.
type RandomIDs struct{}

func (RandomIDs) SeatNumber() string {
	return fmt.Sprintf("%d%c", rand.IntN(40)+1, seatLetters[rand.IntN(len(seatLetters))])
}

func (RandomIDs) BookingReference(airlineCode string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%03d", airlineCode, now.Format("20060102150405"), 100+rand.IntN(900))
}

func (RandomIDs) PassengerCode(corporate bool) string {
	prefix := "INDV"
	if corporate {
		prefix = "CORP"
	}
	return fmt.Sprintf("%s%04d", prefix, 1000+rand.IntN(9000))
}

var _ IDSource = RandomIDs{}
