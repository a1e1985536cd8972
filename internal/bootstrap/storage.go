package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Storage bundles the repositories of the configured backend.
type Storage struct {
	Flights  repository.FlightRepository
	Bookings repository.BookingRepository

	ping  func(ctx context.Context) error
	close func()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

func (s *Storage) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStorage connects to the backend selected by cfg.Driver and verifies it is reachable.
func OpenStorage(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	dsn := cfg.DSN()
	if cfg.Migrate {
		if err := repository.Migrate(dsn); err != nil {
			return nil, err
		}
		log.Printf("postgres migrations applied")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Storage{
		Flights:  repository.NewFlightRepository(pool),
		Bookings: repository.NewBookingRepository(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.DSN()))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	disconnect := func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("disconnect mongo: %v", err)
		}
	}
	if err := client.Ping(ctx, nil); err != nil {
		disconnect()
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Name)
	if cfg.Migrate {
		if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
			disconnect()
			return nil, err
		}
	}

	return &Storage{
		Flights:  repository.NewMongoFlightRepository(db),
		Bookings: repository.NewMongoBookingRepository(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: disconnect,
	}, nil
}
