package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type FlightRepository interface {
	Find(ctx context.Context, query domain.FlightQuery) ([]domain.Flight, error)
	Count(ctx context.Context, filter domain.FlightFilter) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	// FindByIDs returns one flight per requested id that exists, in the order of ids,
	// with ids in the store's canonical form. Missing ids are left out.
	// Malformed ids yield ErrInvalidID.
	FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error)
	Insert(ctx context.Context, flight *domain.Flight) error
}

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
}
