package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	flightsCollection  = "flights"
	bookingsCollection = "bookings"
)

type flightDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Airline       string             `bson:"airline"`
	FlightNumber  string             `bson:"flightNumber"`
	Source        string             `bson:"source"`
	Destination   string             `bson:"destination"`
	Date          string             `bson:"date"`
	DepartureTime string             `bson:"departureTime"`
	ArrivalTime   string             `bson:"arrivalTime"`
	Price         float64            `bson:"price"`
}

func (d flightDocument) toDomain() domain.Flight {
	return domain.Flight{
		ID:            d.ID.Hex(),
		Airline:       d.Airline,
		FlightNumber:  d.FlightNumber,
		Source:        d.Source,
		Destination:   d.Destination,
		Date:          d.Date,
		DepartureTime: d.DepartureTime,
		ArrivalTime:   d.ArrivalTime,
		Price:         d.Price,
	}
}

type MongoFlightRepository struct {
	coll *mongo.Collection
}

func NewMongoFlightRepository(db *mongo.Database) FlightRepository {
	return &MongoFlightRepository{coll: db.Collection(flightsCollection)}
}

func (r *MongoFlightRepository) Find(ctx context.Context, query domain.FlightQuery) ([]domain.Flight, error) {
	opts, err := mongoFindOptions(query)
	if err != nil {
		return nil, err
	}

	cur, err := r.coll.Find(ctx, mongoFlightFilter(query.Filter), opts)
	if err != nil {
		return nil, err
	}
	return decodeFlights(ctx, cur)
}

func (r *MongoFlightRepository) Count(ctx context.Context, filter domain.FlightFilter) (int64, error) {
	return r.coll.CountDocuments(ctx, mongoFlightFilter(filter))
}

func (r *MongoFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc flightDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	f := doc.toDomain()
	return &f, nil
}

func (r *MongoFlightRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		oids = append(oids, oid)
	}

	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	var docs []flightDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return inRequestOrder(oids, docs), nil
}

// inRequestOrder returns one flight per requested id that was found, following oids.
func inRequestOrder(oids []primitive.ObjectID, docs []flightDocument) []domain.Flight {
	byID := make(map[primitive.ObjectID]flightDocument, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	flights := make([]domain.Flight, 0, len(oids))
	for _, oid := range oids {
		if d, ok := byID[oid]; ok {
			flights = append(flights, d.toDomain())
		}
	}
	return flights
}

func (r *MongoFlightRepository) Insert(ctx context.Context, flight *domain.Flight) error {
	doc := flightDocument{
		Airline:       flight.Airline,
		FlightNumber:  flight.FlightNumber,
		Source:        flight.Source,
		Destination:   flight.Destination,
		Date:          flight.Date,
		DepartureTime: flight.DepartureTime,
		ArrivalTime:   flight.ArrivalTime,
		Price:         flight.Price,
	}
	if flight.ID != "" {
		oid, err := primitive.ObjectIDFromHex(flight.ID)
		if err != nil {
			return domain.ErrInvalidID
		}
		doc.ID = oid
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		flight.ID = oid.Hex()
	}
	return nil
}

func mongoFlightFilter(filter domain.FlightFilter) bson.D {
	f := bson.D{}
	if filter.Source != "" {
		f = append(f, bson.E{Key: domain.FlightFieldSource, Value: filter.Source})
	}
	if filter.Destination != "" {
		f = append(f, bson.E{Key: domain.FlightFieldDestination, Value: filter.Destination})
	}
	if filter.Date != "" {
		f = append(f, bson.E{Key: domain.FlightFieldDate, Value: filter.Date})
	}
	return f
}

// mongoFindOptions sorts by the requested field, then by _id so that ties keep insertion order.
func mongoFindOptions(query domain.FlightQuery) (*options.FindOptions, error) {
	if !domain.IsFlightField(query.SortBy) {
		return nil, fmt.Errorf("unsupported sort field %q", query.SortBy)
	}
	direction := 1
	if query.Order == domain.SortDesc {
		direction = -1
	}

	sort := bson.D{{Key: query.SortBy, Value: direction}}
	if query.SortBy != domain.FlightFieldID {
		sort = append(sort, bson.E{Key: domain.FlightFieldID, Value: 1})
	}

	opts := options.Find().SetSort(sort).SetSkip(query.Skip)
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}
	return opts, nil
}

func decodeFlights(ctx context.Context, cur *mongo.Cursor) ([]domain.Flight, error) {
	var docs []flightDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	flights := make([]domain.Flight, 0, len(docs))
	for _, d := range docs {
		flights = append(flights, d.toDomain())
	}
	return flights, nil
}

var _ FlightRepository = (*MongoFlightRepository)(nil)
