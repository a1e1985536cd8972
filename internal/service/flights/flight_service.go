package flights

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

const (
	DefaultPage   = 1
	DefaultSortBy = domain.FlightFieldPrice
	DefaultOrder  = domain.SortAsc
	DateLayout    = "2006-01-02"
)

type FlightUseCase interface {
	List(ctx context.Context, input ListFlightsInput) (*FlightPage, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
}

// ListFlightsInput carries raw search criteria. Zero values select the defaults.
type ListFlightsInput struct {
	Source      string
	Destination string
	Date        string
	Page        int
	Limit       int
	SortBy      string
	Order       string
}

type FlightPage struct {
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalResults int64           `json:"totalResults"`
	Flights      []domain.Flight `json:"flights"`
}

type FlightService struct {
	repo         repository.FlightRepository
	defaultLimit int
	maxLimit     int
}

type FlightServiceOption func(*FlightService)

func WithPageLimits(defaultLimit, maxLimit int) FlightServiceOption {
	return func(s *FlightService) {
		if defaultLimit > 0 {
			s.defaultLimit = defaultLimit
		}
		if maxLimit >= s.defaultLimit {
			s.maxLimit = maxLimit
		}
	}
}

func NewFlightService(repo repository.FlightRepository, opts ...FlightServiceOption) *FlightService {
	s := &FlightService{repo: repo, defaultLimit: 10, maxLimit: 100}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context, input ListFlightsInput) (*FlightPage, error) {
	query, page, limit, err := s.buildQuery(input)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, query.Filter)
	if err != nil {
		return nil, fmt.Errorf("count flights: %w", err)
	}

	flights, err := s.repo.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find flights: %w", err)
	}
	if flights == nil {
		flights = []domain.Flight{}
	}

	return &FlightPage{
		Page:         page,
		Limit:        limit,
		TotalResults: total,
		Flights:      flights,
	}, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) buildQuery(input ListFlightsInput) (domain.FlightQuery, int, int, error) {
	page := input.Page
	if page == 0 {
		page = DefaultPage
	}
	if page < 0 {
		return domain.FlightQuery{}, 0, 0, domain.NewValidationError("page must be a positive integer")
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}
	if limit < 0 {
		return domain.FlightQuery{}, 0, 0, domain.NewValidationError("limit must be a positive integer")
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if !domain.IsFlightField(sortBy) {
		return domain.FlightQuery{}, 0, 0, domain.NewValidationError(fmt.Sprintf("unsupported sortBy %q", sortBy))
	}

	order := domain.SortOrder(input.Order)
	switch order {
	case "":
		order = DefaultOrder
	case domain.SortAsc, domain.SortDesc:
	default:
		return domain.FlightQuery{}, 0, 0, domain.NewValidationError(`order must be "asc" or "desc"`)
	}

	if input.Date != "" {
		if _, err := time.Parse(DateLayout, input.Date); err != nil {
			return domain.FlightQuery{}, 0, 0, domain.NewValidationError("date must be in YYYY-MM-DD format")
		}
	}

	return domain.FlightQuery{
		Filter: domain.FlightFilter{
			Source:      input.Source,
			Destination: input.Destination,
			Date:        input.Date,
		},
		SortBy: sortBy,
		Order:  order,
		Skip:   pageOffset(page, limit),
		Limit:  int64(limit),
	}, page, limit, nil
}

// pageOffset saturates instead of overflowing, so a page far past the end reads nothing.
func pageOffset(page, limit int) int64 {
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return int64(page-1) * int64(limit)
}

var _ FlightUseCase = (*FlightService)(nil)
