package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertBookingSQL = `INSERT INTO bookings (id, flight_ids, full_name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, insertBookingSQL, bookingInsertArgs(booking)...).Scan(&booking.CreatedAt)
}

// bookingInsertArgs assigns an id when the booking has none and returns the insert parameters.
func bookingInsertArgs(booking *domain.Booking) []any {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	return []any{booking.ID, booking.FlightIDs, booking.FullName, booking.Email, booking.Phone, booking.CreatedAt}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
