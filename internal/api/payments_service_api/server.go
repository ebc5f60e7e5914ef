package payments_service_api

import (
	"context"

	"github.com/Domenick1991/skyreserve/internal/api/rpc"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "PaymentsService"

	MethodCharge       = "Charge"
	MethodRefund       = "Refund"
	MethodGetPayment   = "GetPayment"
	MethodListPayments = "ListPayments"
	MethodPaymentStats = "PaymentStats"
)

// Server exposes the payment ledger over gRPC.
type Server struct {
	payments payment.PaymentUseCase
}

type chargeRequest struct {
	ReservationID string `json:"reservation_id"`
	AmountCents   int64  `json:"amount_cents"`
	CardNumber    string `json:"card_number"`
	CVV           string `json:"cvv"`
	Expiry        string `json:"expiry"`
}

type paymentRequest struct {
	ID            string `json:"id"`
	ReservationID string `json:"reservation_id"`
}

type paymentResponse struct {
	Payment *domain.Payment `json:"payment"`
}

type listPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}

func NewServer(payments payment.PaymentUseCase) *Server {
	return &Server{payments: payments}
}

func (s *Server) Register(registrar grpc.ServiceRegistrar) {
	registrar.RegisterService(rpc.ServiceDesc(ServiceName, map[string]rpc.Method{
		MethodCharge:       s.Charge,
		MethodRefund:       s.Refund,
		MethodGetPayment:   s.GetPayment,
		MethodListPayments: s.ListPayments,
		MethodPaymentStats: s.PaymentStats,
	}), s)
}

func (s *Server) Charge(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req chargeRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.payments.Charge(ctx, payment.ChargeInput{
		ReservationID: req.ReservationID,
		AmountCents:   req.AmountCents,
		CardNumber:    req.CardNumber,
		CVV:           req.CVV,
		Expiry:        req.Expiry,
	})
	return rpc.Reply(paymentResponse{Payment: p}, err)
}

func (s *Server) Refund(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req paymentRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.payments.Refund(ctx, req.ID)
	return rpc.Reply(paymentResponse{Payment: p}, err)
}

func (s *Server) GetPayment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req paymentRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.payments.GetPayment(ctx, req.ID)
	return rpc.Reply(paymentResponse{Payment: p}, err)
}

func (s *Server) ListPayments(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req paymentRequest
	if err := rpc.Decode(in, &req); err != nil {
		return nil, err
	}
	list, err := s.payments.ListByReservation(ctx, req.ReservationID)
	return rpc.Reply(listPaymentsResponse{Payments: list}, err)
}

func (s *Server) PaymentStats(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	st, err := s.payments.Stats(ctx)
	return rpc.Reply(st, err)
}
