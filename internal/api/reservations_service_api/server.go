package reservations_service_api

import (
	"context"

	"github.com/Domenick1991/skyreserve/internal/api/rpc"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "ReservationsService"

	MethodCreateReservation  = "CreateReservation"
	MethodGetReservation     = "GetReservation"
	MethodFindReservations   = "FindReservations"
	MethodAddTraveler        = "AddTraveler"
	MethodRemoveTraveler     = "RemoveTraveler"
	MethodConfirmReservation = "ConfirmReservation"
	MethodCancelReservation  = "CancelReservation"
	MethodDiscardReservation = "DiscardReservation"
	MethodReservationStats   = "ReservationStats"
)

// Server exposes the reservation coordinator over gRPC.
type Server struct {
	reservations reservation.ReservationUseCase
}

type reservationRequest struct {
	ID         string `json:"id"`
	FlightID   string `json:"flight_id"`
	Email      string `json:"email"`
	TravelerID string `json:"traveler_id"`
	PaymentID  string `json:"payment_id"`
}

type addTravelerRequest struct {
	ID       string `json:"id"`
	Traveler struct {
		ID        string `json:"id"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Age       int    `json:"age"`
	} `json:"traveler"`
}

type reservationResponse struct {
	Reservation *domain.Reservation `json:"reservation"`
}

type listReservationsResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
}

type confirmResponse struct {
	Confirmed   bool                `json:"confirmed"`
	Reservation *domain.Reservation `json:"reservation"`
}

func NewServer(reservations reservation.ReservationUseCase) *Server {
	return &Server{reservations: reservations}
}

func (s *Server) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(rpc.ServiceDesc(ServiceName, map[string]rpc.Method{
		MethodCreateReservation:  s.CreateReservation,
		MethodGetReservation:     s.GetReservation,
		MethodFindReservations:   s.FindReservations,
		MethodAddTraveler:        s.AddTraveler,
		MethodRemoveTraveler:     s.RemoveTraveler,
		MethodConfirmReservation: s.ConfirmReservation,
		MethodCancelReservation:  s.CancelReservation,
		MethodDiscardReservation: s.DiscardReservation,
		MethodReservationStats:   s.ReservationStats,
	}), s)
}

func (s *Server) CreateReservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	created, err := s.reservations.CreateReservation(ctx, req.FlightID)
	return rpc.Reply(reservationResponse{Reservation: created}, err)
}

func (s *Server) GetReservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.GetReservation(ctx, req.ID)
	return rpc.Reply(reservationResponse{Reservation: res}, err)
}

func (s *Server) FindReservations(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	found, err := s.reservations.FindByTravelerEmail(ctx, req.Email)
	return rpc.Reply(listReservationsResponse{Reservations: found}, err)
}

func (s *Server) AddTraveler(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req addTravelerRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	t := req.Traveler
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	traveler, err := domain.NewTraveler(t.ID, t.FirstName, t.LastName, t.Email, t.Phone, t.Age)
	if err != nil {
		return nil, rpc.Status(err)
	}
	res, err := s.reservations.AddTraveler(ctx, req.ID, &traveler)
	return rpc.Reply(reservationResponse{Reservation: res}, err)
}

func (s *Server) RemoveTraveler(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.RemoveTraveler(ctx, req.ID, req.TravelerID)
	return rpc.Reply(reservationResponse{Reservation: res}, err)
}

func (s *Server) ConfirmReservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	result, err := s.reservations.ConfirmReservation(ctx, req.ID, req.PaymentID)
	return rpc.Reply(confirmResponse{Confirmed: result.Confirmed, Reservation: result.Reservation}, err)
}

func (s *Server) CancelReservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.CancelReservation(ctx, req.ID)
	return rpc.Reply(reservationResponse{Reservation: res}, err)
}

func (s *Server) DiscardReservation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decode(in)
	if err != nil {
		return nil, err
	}
	err = s.reservations.DiscardReservation(ctx, req.ID)
	return rpc.Reply(struct{}{}, err)
}

func (s *Server) ReservationStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.reservations.Stats(ctx)
	return rpc.Reply(st, err)
}

func decode(in *structpb.Struct) (reservationRequest, error) {
	var req reservationRequest
	err := rpc.Decode(in, &req)
	return req, err
}
