package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBookingEvent(t *testing.T) {
	created := time.Date(2099, 12, 1, 10, 0, 0, 0, time.UTC)
	event := BookingEvent{
		Type:      EventBookingCreated,
		BookingID: "b1",
		TripType:  "round-trip",
		FlightIDs: []string{"f1", "f2"},
		FullName:  "John Doe",
		Email:     "john@example.com",
		CreatedAt: created,
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeBookingEvent(kafka.Message{Value: data})

	require.NoError(t, err)
	assert.True(t, created.Equal(decoded.CreatedAt))
	decoded.CreatedAt = created
	assert.Equal(t, event, decoded)
}

func TestDecodeBookingEvent_Malformed(t *testing.T) {
	_, err := DecodeBookingEvent(kafka.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

func TestProducer_CloseNil(t *testing.T) {
	var p *Producer
	assert.NoError(t, p.Close())
}
