package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const flightColumns = `flights.id::text, airline, flight_number, source, destination, date, departure_time, arrival_time, price`

// flightSortColumns maps wire names to ORDER BY expressions. Text columns sort bytewise
// so PostgreSQL orders the same way as plain string comparison, whatever the database collation.
var flightSortColumns = map[string]string{
	domain.FlightFieldID:            "id",
	domain.FlightFieldAirline:       `airline COLLATE "C"`,
	domain.FlightFieldFlightNumber:  `flight_number COLLATE "C"`,
	domain.FlightFieldSource:        `source COLLATE "C"`,
	domain.FlightFieldDestination:   `destination COLLATE "C"`,
	domain.FlightFieldDate:          `date COLLATE "C"`,
	domain.FlightFieldDepartureTime: `departure_time COLLATE "C"`,
	domain.FlightFieldArrivalTime:   `arrival_time COLLATE "C"`,
	domain.FlightFieldPrice:         "price",
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) Find(ctx context.Context, query domain.FlightQuery) ([]domain.Flight, error) {
	sql, args, err := buildFlightSelect(query)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlights(rows)
}

func (r *PGFlightRepository) Count(ctx context.Context, filter domain.FlightFilter) (int64, error) {
	where, args := buildFlightWhere(filter)
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM flights`+where, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	canonical, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, canonical)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (r *PGFlightRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error) {
	canonical, err := canonicalIDs(ids)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, findFlightsByIDsSQL, canonical)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectFlights(rows)
}

// findFlightsByIDsSQL yields one row per requested id that exists, in request order.
const findFlightsByIDsSQL = `SELECT ` + flightColumns + ` FROM unnest($1::uuid[]) WITH ORDINALITY AS req(id, ord)
	JOIN flights ON flights.id = req.id
	ORDER BY req.ord`

// canonicalID accepts any form uuid.Parse does (no dashes, braces, urn prefix, upper case)
// and returns the lowercase dashed form the store reports back.
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", domain.ErrInvalidID
	}
	return u.String(), nil
}

func canonicalIDs(ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		c, err := canonicalID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *PGFlightRepository) Insert(ctx context.Context, flight *domain.Flight) error {
	if flight.ID == "" {
		flight.ID = uuid.NewString()
	} else {
		id, err := canonicalID(flight.ID)
		if err != nil {
			return err
		}
		flight.ID = id
	}
	_, err := r.db.Exec(ctx, `INSERT INTO flights (id, airline, flight_number, source, destination, date, departure_time, arrival_time, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		flight.ID, flight.Airline, flight.FlightNumber, flight.Source, flight.Destination, flight.Date,
		flight.DepartureTime, flight.ArrivalTime, flight.Price)
	return err
}

func buildFlightWhere(filter domain.FlightFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("source", filter.Source)
	add("destination", filter.Destination)
	add("date", filter.Date)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildFlightSelect renders the page query. Ties on the sort column keep insertion order.
func buildFlightSelect(query domain.FlightQuery) (string, []any, error) {
	column, ok := flightSortColumns[query.SortBy]
	if !ok {
		return "", nil, fmt.Errorf("unsupported sort field %q", query.SortBy)
	}
	direction := "ASC"
	if query.Order == domain.SortDesc {
		direction = "DESC"
	}

	where, args := buildFlightWhere(query.Filter)
	var sb strings.Builder
	sb.WriteString(`SELECT ` + flightColumns + ` FROM flights`)
	sb.WriteString(where)
	fmt.Fprintf(&sb, " ORDER BY %s %s, seq ASC", column, direction)

	args = append(args, query.Skip)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	if query.Limit > 0 {
		args = append(args, query.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

func scanFlight(row pgx.Row) (*domain.Flight, error) {
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.Source, &f.Destination, &f.Date, &f.DepartureTime, &f.ArrivalTime, &f.Price); err != nil {
		return nil, err
	}
	return &f, nil
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
