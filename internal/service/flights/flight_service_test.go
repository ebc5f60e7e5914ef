package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) UpdateSeats(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) FlightsGeneration(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight, gen int64) error {
	args := m.Called(ctx, flights, gen)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var departure = time.Date(2025, time.October, 15, 10, 0, 0, 0, time.UTC)

func sampleFlights() []domain.Flight {
	return []domain.Flight{
		{ID: "FL001", Airline: "PIA", FromAirport: "Karachi", ToAirport: "Lahore", DepartureTime: departure,
			ArrivalTime: departure.Add(2 * time.Hour), TotalSeats: 100, AvailableSeats: 50, PriceCents: 500000},
		{ID: "FL002", Airline: "AirBlue", FromAirport: "Karachi", ToAirport: "Lahore", DepartureTime: departure.Add(5 * time.Hour),
			ArrivalTime: departure.Add(7 * time.Hour), TotalSeats: 100, AvailableSeats: 2, PriceCents: 350000},
		{ID: "FL003", Airline: "PIA", FromAirport: "Karachi", ToAirport: "Lahore", DepartureTime: departure.Add(2 * time.Hour),
			ArrivalTime: departure.Add(4 * time.Hour), TotalSeats: 10, AvailableSeats: 0, PriceCents: 100000},
		{ID: "FL004", Airline: "PIA", FromAirport: "Karachi", ToAirport: "Lahore", DepartureTime: departure.Add(24 * time.Hour),
			ArrivalTime: departure.Add(26 * time.Hour), TotalSeats: 10, AvailableSeats: 10, PriceCents: 100000},
		{ID: "FL005", Airline: "PIA", FromAirport: "Lahore", ToAirport: "Islamabad", DepartureTime: departure,
			ArrivalTime: departure.Add(time.Hour), TotalSeats: 10, AvailableSeats: 10, PriceCents: 100000},
	}
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	cached := sampleFlights()[:1]
	mockCache.On("GetFlights", ctx).Return(cached, nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, cached, flights)
	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	stored := sampleFlights()
	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(4), nil).Once()
	mockRepo.On("List", ctx).Return(stored, nil).Once()
	mockCache.On("SetFlights", ctx, stored, int64(4)).Return(nil).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, stored, flights)
	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheErrorFallsBack(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	stored := sampleFlights()
	mockCache.On("GetFlights", ctx).Return(nil, errors.New("redis down")).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(0), nil).Once()
	mockRepo.On("List", ctx).Return(stored, nil).Once()
	mockCache.On("SetFlights", ctx, stored, int64(0)).Return(errors.New("redis down")).Once()

	flights, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Len(t, flights, len(stored))
}

func TestFlightService_List_GenerationReadBeforeRepository(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	stored := sampleFlights()
	var order []string
	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(7), nil).Once().
		Run(func(mock.Arguments) { order = append(order, "generation") })
	mockRepo.On("List", ctx).Return(stored, nil).Once().
		Run(func(mock.Arguments) { order = append(order, "repository") })
	// An invalidation between the two reads bumps the counter; the cache
	// compares against the value read first and skips the write.
	mockCache.On("SetFlights", ctx, stored, int64(7)).Return(errors.New("flights list invalidated since read")).Once()

	flights, err := service.List(ctx)

	require.NoError(t, err)
	assert.Equal(t, stored, flights)
	assert.Equal(t, []string{"generation", "repository"}, order)
	mockCache.AssertExpectations(t)
}

func TestFlightService_List_GenerationErrorSkipsWriteBack(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	stored := sampleFlights()
	mockCache.On("GetFlights", ctx).Return(nil, nil).Once()
	mockCache.On("FlightsGeneration", ctx).Return(int64(0), errors.New("redis down")).Once()
	mockRepo.On("List", ctx).Return(stored, nil).Once()

	flights, err := service.List(ctx)

	require.NoError(t, err)
	assert.Len(t, flights, len(stored))
	mockCache.AssertNotCalled(t, "SetFlights", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_List_RepoError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()
	mockRepo.On("List", ctx).Return([]domain.Flight(nil), errors.New("db down")).Once()

	flights, err := service.List(ctx)

	assert.Error(t, err)
	assert.Nil(t, flights)
}

func TestFlightService_GetByID(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()
	flight := &sampleFlights()[0]
	mockRepo.On("GetByID", ctx, "FL001").Return(flight, nil).Once()
	mockRepo.On("GetByID", ctx, "FL404").Return(nil, domain.ErrFlightNotFound).Once()

	got, err := service.GetByID(ctx, "FL001")
	assert.NoError(t, err)
	assert.Equal(t, flight, got)

	_, err = service.GetByID(ctx, "FL404")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.GetByID(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrFlightIDRequired)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_AddFlight(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	input := AddFlightInput{
		ID: "FL010", Airline: "PIA", FromAirport: "Karachi", ToAirport: "Lahore",
		DepartureTime: departure, ArrivalTime: departure.Add(2 * time.Hour), TotalSeats: 10, PriceCents: 1000,
	}
	mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Flight")).Return(nil).Once()
	mockCache.On("InvalidateFlights", ctx).Return(nil).Once()

	flight, err := service.AddFlight(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, 10, flight.AvailableSeats)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)

	input.TotalSeats = 0
	_, err = service.AddFlight(ctx, input)
	assert.ErrorIs(t, err, domain.ErrInvalidTotalSeats)
}

func TestFlightService_Seed_SkipsExisting(t *testing.T) {
	repo := repository.NewMemoryFlightRepository()
	service := NewFlightService(repo, nil)
	ctx := context.Background()

	inputs := []AddFlightInput{
		{ID: "FL001", FromAirport: "A", ToAirport: "B", DepartureTime: departure, ArrivalTime: departure, TotalSeats: 1},
		{ID: "FL002", FromAirport: "B", ToAirport: "C", DepartureTime: departure, ArrivalTime: departure, TotalSeats: 1},
	}
	added, err := service.Seed(ctx, inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = service.Seed(ctx, inputs)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
}

func TestFlightService_Search(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()
	mockRepo.On("List", ctx).Return(sampleFlights(), nil)

	ids := func(flights []domain.Flight) []string {
		out := make([]string, 0, len(flights))
		for _, f := range flights {
			out = append(out, f.ID)
		}
		return out
	}

	testCases := []struct {
		name  string
		query SearchQuery
		want  []string
	}{
		{name: "route and day", query: SearchQuery{From: "karachi", To: "LAHORE", Date: departure}, want: []string{"FL001", "FL002"}},
		{name: "airline filter", query: SearchQuery{From: "Karachi", To: "Lahore", Date: departure, Airline: "airblue"}, want: []string{"FL002"}},
		{name: "seat filter", query: SearchQuery{From: "Karachi", To: "Lahore", Date: departure, Seats: 3}, want: []string{"FL001"}},
		{name: "price range", query: SearchQuery{From: "Karachi", To: "Lahore", Date: departure, MinPriceCents: 350000, MaxPriceCents: 350000}, want: []string{"FL002"}},
		{name: "next day", query: SearchQuery{From: "Karachi", To: "Lahore", Date: departure.Add(24 * time.Hour)}, want: []string{"FL004"}},
		{name: "no match", query: SearchQuery{From: "Lahore", To: "Karachi", Date: departure}, want: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			found, err := service.Search(ctx, tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(found))
		})
	}
}

func TestFlightService_Search_DepartureOffset(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)
	ctx := context.Background()

	est := time.FixedZone("EST", -5*3600)
	dep := time.Date(2025, time.October, 15, 18, 0, 0, 0, est)
	mockRepo.On("List", ctx).Return([]domain.Flight{
		{ID: "NY1", Airline: "Delta", FromAirport: "JFK", ToAirport: "LAX", DepartureTime: dep,
			ArrivalTime: dep.Add(6 * time.Hour), TotalSeats: 10, AvailableSeats: 10, PriceCents: 30000},
	}, nil)

	found, err := service.Search(ctx, SearchQuery{From: "JFK", To: "LAX", Date: time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "NY1", found[0].ID)

	found, err = service.Search(ctx, SearchQuery{From: "JFK", To: "LAX", Date: time.Date(2025, time.October, 16, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFlightService_Search_Validation(t *testing.T) {
	service := NewFlightService(&MockFlightRepository{}, nil)
	ctx := context.Background()

	testCases := []struct {
		name  string
		query SearchQuery
		err   error
	}{
		{name: "no source", query: SearchQuery{To: "B", Date: departure}, err: domain.ErrSourceRequired},
		{name: "no destination", query: SearchQuery{From: "A", Date: departure}, err: domain.ErrDestinationRequired},
		{name: "no date", query: SearchQuery{From: "A", To: "B"}, err: domain.ErrTravelDateRequired},
		{name: "same city", query: SearchQuery{From: "A", To: "a", Date: departure}, err: domain.ErrSameSourceDestination},
		{name: "negative price", query: SearchQuery{From: "A", To: "B", Date: departure, MinPriceCents: -1}, err: domain.ErrNegativePriceBound},
		{name: "inverted range", query: SearchQuery{From: "A", To: "B", Date: departure, MinPriceCents: 10, MaxPriceCents: 5}, err: domain.ErrInvertedPriceRange},
		{name: "negative seats", query: SearchQuery{From: "A", To: "B", Date: departure, Seats: -1}, err: domain.ErrRequiredSeatsNegative},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Search(ctx, tc.query)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseSeed(t *testing.T) {
	inputs, err := ParseSeed([]byte(`
- id: FL003
  airline: Aeroflot
  from_airport: SVO
  to_airport: LED
  departure_time: 2025-10-16T08:30:00Z
  arrival_time: 2025-10-16T09:55:00Z
  total_seats: 1
  price_cents: 10000
`))
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, "FL003", inputs[0].ID)
	assert.Equal(t, int64(10000), inputs[0].PriceCents)
	assert.Equal(t, 85*time.Minute, inputs[0].ArrivalTime.Sub(inputs[0].DepartureTime))

	_, err = ParseSeed([]byte("not: [a list"))
	assert.Error(t, err)
}
