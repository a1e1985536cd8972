package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type bookingDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FlightIDs []string           `bson:"flightIds"`
	FullName  string             `bson:"fullName"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type MongoBookingRepository struct {
	coll *mongo.Collection
}

func NewMongoBookingRepository(db *mongo.Database) BookingRepository {
	return &MongoBookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *MongoBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	res, err := r.coll.InsertOne(ctx, bookingDocument{
		FlightIDs: booking.FlightIDs,
		FullName:  booking.FullName,
		Email:     booking.Email,
		Phone:     booking.Phone,
		CreatedAt: booking.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

var _ BookingRepository = (*MongoBookingRepository)(nil)
