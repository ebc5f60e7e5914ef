package flights_service_api

import (
	"context"
	"time"

	"github.com/Domenick1991/skyreserve/internal/api/rpc"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "FlightsService"

	MethodListFlights   = "ListFlights"
	MethodGetFlight     = "GetFlight"
	MethodAddFlight     = "AddFlight"
	MethodSearchFlights = "SearchFlights"
)

// Server exposes the flight catalog over gRPC.
type Server struct {
	flights flights.FlightUseCase
}

type getFlightRequest struct {
	ID string `json:"id"`
}

type searchFlightsRequest struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Date          string `json:"date"`
	Airline       string `json:"airline"`
	MinPriceCents int64  `json:"min_price_cents"`
	MaxPriceCents int64  `json:"max_price_cents"`
	Seats         int    `json:"seats"`
}

type flightResponse struct {
	Flight *domain.Flight `json:"flight"`
}

type listFlightsResponse struct {
	Flights []domain.Flight `json:"flights"`
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(rpc.ServiceDesc(ServiceName, map[string]rpc.Method{
		MethodListFlights:   s.ListFlights,
		MethodGetFlight:     s.GetFlight,
		MethodAddFlight:     s.AddFlight,
		MethodSearchFlights: s.SearchFlights,
	}), s)
}

func (s *Server) ListFlights(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.flights.List(ctx)
	return rpc.Reply(listFlightsResponse{Flights: list}, err)
}

func (s *Server) GetFlight(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req getFlightRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, req.ID)
	return rpc.Reply(flightResponse{Flight: flight}, err)
}

func (s *Server) AddFlight(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req flights.AddFlightInput
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	flight, err := s.flights.AddFlight(ctx, req)
	return rpc.Reply(flightResponse{Flight: flight}, err)
}

func (s *Server) SearchFlights(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req searchFlightsRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, rpc.Status(domain.ErrTravelDateRequired)
		}
		date = parsed
	}
	found, err := s.flights.Search(ctx, flights.SearchQuery{
		From:          req.From,
		To:            req.To,
		Date:          date,
		Airline:       req.Airline,
		MinPriceCents: req.MinPriceCents,
		MaxPriceCents: req.MaxPriceCents,
		Seats:         req.Seats,
	})
	return rpc.Reply(listFlightsResponse{Flights: found}, err)
}
