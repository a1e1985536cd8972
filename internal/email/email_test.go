package email

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderConfirmation_RoundTrip(t *testing.T) {
	subject, body := renderConfirmation(kafka.BookingEvent{
		Type:      kafka.EventBookingCreated,
		BookingID: "b-1",
		TripType:  "round-trip",
		FlightIDs: []string{"f-out", "f-in"},
		FullName:  "John Doe",
		Email:     "john@example.com",
		Phone:     "9876543210",
		CreatedAt: time.Date(2099, 12, 1, 10, 30, 0, 0, time.UTC),
	})

	assert.Equal(t, "Booking confirmed: b-1", subject)
	assert.Contains(t, body, "Hello John Doe")
	assert.Contains(t, body, "round-trip booking b-1")
	assert.Contains(t, body, "Outbound flight: f-out")
	assert.Contains(t, body, "Return flight: f-in")
	assert.Contains(t, body, "Contact phone: 9876543210")
	assert.Contains(t, body, "2099-12-01 10:30 UTC")
}

func TestRenderConfirmation_OneWayWithoutPhone(t *testing.T) {
	_, body := renderConfirmation(kafka.BookingEvent{
		BookingID: "b-2",
		TripType:  "one-way",
		FlightIDs: []string{"f-out"},
		FullName:  "Jane Roe",
	})

	assert.NotContains(t, body, "Return flight")
	assert.NotContains(t, body, "Contact phone")
}

func TestSender_SendWithoutSMTP(t *testing.T) {
	sender, err := NewSender(config.SMTPConfig{})
	require.NoError(t, err)

	err = sender.Send(context.Background(), kafka.BookingEvent{Type: kafka.EventBookingCreated, BookingID: "b-3", Email: "a@b.co"})
	assert.NoError(t, err)
}

func TestSender_IgnoresOtherEvents(t *testing.T) {
	sender, err := NewSender(config.SMTPConfig{})
	require.NoError(t, err)

	assert.NoError(t, sender.Send(context.Background(), kafka.BookingEvent{Type: "something_else"}))
}
