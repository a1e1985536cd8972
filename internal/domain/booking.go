package domain

import "time"

const (
	TripTypeOneWay    = "one-way"
	TripTypeRoundTrip = "round-trip"
)

// Booking references flights by id only; flights are never modified by a booking.
type Booking struct {
	ID        string    `json:"_id"`
	FlightIDs []string  `json:"flightIds"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (b *Booking) TripType() string {
	return TripTypeFor(len(b.FlightIDs))
}

func TripTypeFor(legs int) string {
	if legs == 2 {
		return TripTypeRoundTrip
	}
	return TripTypeOneWay
}
