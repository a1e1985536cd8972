package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/wneessen/go-mail"
)

type Sender struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSender builds an SMTP sender. With no SMTP host configured messages are only logged.
func NewSender(cfg config.SMTPConfig) (*Sender, error) {
	s := &Sender{from: cfg.From, fromName: cfg.FromName}
	if cfg.Host == "" {
		return s, nil
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	s.client = c
	return s, nil
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type != kafka.EventBookingCreated {
		return nil
	}

	subject, body := renderConfirmation(event)
	if s.client == nil {
		log.Printf("smtp disabled, confirmation for booking %s to %s: %s", event.BookingID, event.Email, subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(event.Email); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation for booking %s: %w", event.BookingID, err)
	}
	log.Printf("sent confirmation for booking %s to %s", event.BookingID, event.Email)
	return nil
}

func renderConfirmation(event kafka.BookingEvent) (string, string) {
	subject := fmt.Sprintf("Booking confirmed: %s", event.BookingID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", event.FullName)
	fmt.Fprintf(&b, "Your %s booking %s is confirmed.\n", event.TripType, event.BookingID)
	for i, id := range event.FlightIDs {
		leg := "Outbound"
		if i == 1 {
			leg = "Return"
		}
		fmt.Fprintf(&b, "%s flight: %s\n", leg, id)
	}
	if event.Phone != "" {
		fmt.Fprintf(&b, "Contact phone: %s\n", event.Phone)
	}
	fmt.Fprintf(&b, "Booked at: %s\n", event.CreatedAt.Format("2006-01-02 15:04 MST"))
	return subject, b.String()
}
