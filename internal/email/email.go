package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/kafka"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender turns booking events into passenger notifications. Delivery is a
// structured log line; there is no SMTP relay in this deployment.
type Sender struct {
	log *slog.Logger
}

func NewSender(log *slog.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	msg, err := Compose(event)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "send email",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("event_id", event.EventID),
		slog.String("booking_reference", event.Reference))
	return nil
}

// Compose renders the message for a booking event. Events without a
// recipient are rejected.
func Compose(event kafka.BookingEvent) (Message, error) {
	if event.Email == "" {
		return Message{}, fmt.Errorf("event %s has no recipient", event.EventID)
	}

	var subject string
	switch event.Type {
	case kafka.EventBookingCreated:
		subject = fmt.Sprintf("Booking %s confirmed", event.Reference)
	case kafka.EventBookingCancelled:
		subject = fmt.Sprintf("Booking %s cancelled", event.Reference)
	default:
		subject = fmt.Sprintf("Booking %s updated", event.Reference)
	}

	var b strings.Builder
	name := event.PassengerName
	if name == "" {
		name = "traveller"
	}
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Booking reference: %s\n", event.Reference)
	if event.FlightNumber != "" {
		fmt.Fprintf(&b, "Flight: %s (%s)\n", event.FlightNumber, event.Route)
	}
	fmt.Fprintf(&b, "Date: %s, cabin: %s\n", event.FlightDate, event.CabinClass)
	if event.SeatNumber != "" {
		fmt.Fprintf(&b, "Seat: %s\n", event.SeatNumber)
	}
	fmt.Fprintf(&b, "Status: %s\n", event.Status)
	if event.Type == kafka.EventBookingCreated {
		fmt.Fprintf(&b, "Ticket price: %.2f\n", event.TicketPrice)
	}

	return Message{To: event.Email, Subject: subject, Body: b.String()}, nil
}
