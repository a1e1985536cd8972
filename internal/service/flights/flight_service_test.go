package flights

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Find(ctx context.Context, query domain.FlightQuery) ([]domain.Flight, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Count(ctx context.Context, filter domain.FlightFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Flight, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Insert(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{ID: "f1", Airline: "IndiGo", FlightNumber: "6E-201", Source: "DEL", Destination: "BOM", Date: "2099-12-12", DepartureTime: "06:00", ArrivalTime: "08:10", Price: 3200},
		{ID: "f2", Airline: "Air India", FlightNumber: "AI101", Source: "DEL", Destination: "BOM", Date: "2099-12-12", DepartureTime: "09:30", ArrivalTime: "11:45", Price: 4500},
	}
}

func TestFlightService_List_Defaults(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	expectedQuery := domain.FlightQuery{
		SortBy: domain.FlightFieldPrice,
		Order:  domain.SortAsc,
		Skip:   0,
		Limit:  10,
	}
	flights := sampleFlights()

	mockRepo.On("Count", ctx, domain.FlightFilter{}).Return(int64(2), nil).Once()
	mockRepo.On("Find", ctx, expectedQuery).Return(flights, nil).Once()

	page, err := service.List(ctx, ListFlightsInput{})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(2), page.TotalResults)
	assert.Equal(t, flights, page.Flights)

	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_FiltersSortAndPagination(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	filter := domain.FlightFilter{Source: "DEL", Destination: "BOM", Date: "2099-12-12"}
	expectedQuery := domain.FlightQuery{
		Filter: filter,
		SortBy: domain.FlightFieldDepartureTime,
		Order:  domain.SortDesc,
		Skip:   10,
		Limit:  5,
	}

	mockRepo.On("Count", ctx, filter).Return(int64(12), nil).Once()
	mockRepo.On("Find", ctx, expectedQuery).Return(sampleFlights()[:1], nil).Once()

	page, err := service.List(ctx, ListFlightsInput{
		Source:      "DEL",
		Destination: "BOM",
		Date:        "2099-12-12",
		Page:        3,
		Limit:       5,
		SortBy:      "departureTime",
		Order:       "desc",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, int64(12), page.TotalResults)
	assert.Len(t, page.Flights, 1)

	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_NoMatches(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil).Once()
	mockRepo.On("Find", ctx, mock.Anything).Return(nil, nil).Once()

	page, err := service.List(ctx, ListFlightsInput{Source: "XXX"})

	require.NoError(t, err)
	assert.Equal(t, int64(0), page.TotalResults)
	assert.NotNil(t, page.Flights)
	assert.Empty(t, page.Flights)
}

func TestFlightService_List_ClampsLimit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, WithPageLimits(5, 20))
	ctx := context.Background()

	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), nil).Once()
	mockRepo.On("Find", ctx, mock.MatchedBy(func(q domain.FlightQuery) bool {
		return q.Limit == 20 && q.Skip == 20
	})).Return([]domain.Flight{}, nil).Once()

	page, err := service.List(ctx, ListFlightsInput{Page: 2, Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_PageFarPastTheEnd(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Count", ctx, domain.FlightFilter{}).Return(int64(2), nil).Once()
	mockRepo.On("Find", ctx, mock.MatchedBy(func(q domain.FlightQuery) bool {
		return q.Skip == math.MaxInt64 && q.Limit == 100
	})).Return([]domain.Flight{}, nil).Once()

	page, err := service.List(ctx, ListFlightsInput{Page: math.MaxInt64 / 50, Limit: 100})

	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalResults)
	assert.Empty(t, page.Flights)
	mockRepo.AssertExpectations(t)
}

func TestPageOffset(t *testing.T) {
	assert.Equal(t, int64(0), pageOffset(1, 10))
	assert.Equal(t, int64(20), pageOffset(3, 10))
	assert.Equal(t, int64(math.MaxInt64), pageOffset(math.MaxInt64, 2))
	assert.GreaterOrEqual(t, pageOffset(math.MaxInt64/50, 100), int64(0))
}

func TestFlightService_List_ValidationErrors(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{})
	ctx := context.Background()

	testCases := []struct {
		name        string
		input       ListFlightsInput
		expectedErr string
	}{
		{name: "Negative page", input: ListFlightsInput{Page: -1}, expectedErr: "page must be a positive integer"},
		{name: "Negative limit", input: ListFlightsInput{Limit: -5}, expectedErr: "limit must be a positive integer"},
		{name: "Unknown sort field", input: ListFlightsInput{SortBy: "seats"}, expectedErr: "unsupported sortBy"},
		{name: "Bad order", input: ListFlightsInput{Order: "up"}, expectedErr: "order must be"},
		{name: "Bad date", input: ListFlightsInput{Date: "12/12/2099"}, expectedErr: "YYYY-MM-DD"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := service.List(ctx, tc.input)
			assert.Nil(t, page)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	expectedErr := errors.New("database error")
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(0), expectedErr).Once()

	page, err := service.List(ctx, ListFlightsInput{})

	assert.Nil(t, page)
	assert.ErrorIs(t, err, expectedErr)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	mockRepo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
}

func TestFlightService_List_FindError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	expectedErr := errors.New("cursor error")
	mockRepo.On("Count", ctx, mock.Anything).Return(int64(3), nil).Once()
	mockRepo.On("Find", ctx, mock.Anything).Return(nil, expectedErr).Once()

	page, err := service.List(ctx, ListFlightsInput{})

	assert.Nil(t, page)
	assert.ErrorIs(t, err, expectedErr)
}

func TestFlightService_GetByID_Success(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	flight := &sampleFlights()[1]
	mockRepo.On("GetByID", ctx, "f2").Return(flight, nil).Twice()

	first, err := service.GetByID(ctx, "f2")
	require.NoError(t, err)
	second, err := service.GetByID(ctx, "f2")
	require.NoError(t, err)

	assert.Equal(t, flight, first)
	assert.Equal(t, first, second)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_GetByID_NotFound(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)
	ctx := context.Background()

	mockRepo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound).Once()

	flight, err := service.GetByID(ctx, "missing")

	assert.Nil(t, flight)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFlightService_GetByID_EmptyID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo)

	flight, err := service.GetByID(context.Background(), "")

	assert.Nil(t, flight)
	assert.ErrorIs(t, err, domain.ErrInvalidID)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
