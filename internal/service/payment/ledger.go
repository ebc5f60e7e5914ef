package payment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/Domenick1991/skyreserve/internal/card"
	"github.com/Domenick1991/skyreserve/internal/clock"
	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/Domenick1991/skyreserve/internal/idgen"
	"github.com/Domenick1991/skyreserve/internal/kafka"
	"github.com/Domenick1991/skyreserve/internal/repository"
)

type PaymentUseCase interface {
	Charge(ctx context.Context, input ChargeInput) (*domain.Payment, error)
	Refund(ctx context.Context, paymentID string) (*domain.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error)
	Stats(ctx context.Context) (Stats, error)
	VerifyPayment(ctx context.Context, paymentID, reservationID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ChargeInput carries the raw instrument only as far as validation; the
// stored record keeps the masked number.
type ChargeInput struct {
	ReservationID string
	AmountCents   int64
	CardNumber    string
	CVV           string
	Expiry        string
}

type Stats struct {
	TotalRevenueCents int64 `json:"total_revenue_cents"`
	Total             int   `json:"total"`
	Successful        int   `json:"successful"`
	Failed            int   `json:"failed"`
	Refunded          int   `json:"refunded"`
}

// Ledger serializes every mutation behind one mutex.
type Ledger struct {
	mu       sync.Mutex
	payments repository.PaymentRepository
	ids      idgen.Generator
	clock    clock.Clock
	producer Producer
	topic    string
}

type LedgerOption func(*Ledger)

func WithProducer(producer Producer, topic string) LedgerOption {
	return func(l *Ledger) {
		l.producer = producer
		l.topic = topic
	}
}

func NewLedger(payments repository.PaymentRepository, ids idgen.Generator, clk clock.Clock, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		payments: payments,
		ids:      ids,
		clock:    clk,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) Charge(ctx context.Context, input ChargeInput) (*domain.Payment, error) {
	if strings.TrimSpace(input.ReservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}
	if input.AmountCents <= 0 {
		return nil, domain.ErrAmountNotPositive
	}
	now := l.clock.Now()
	if err := card.Validate(input.CardNumber, input.CVV, input.Expiry, now); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.ids.Next(ctx)
	if err != nil {
		return nil, fmt.Errorf("payment id: %w", err)
	}
	p, err := domain.NewPayment(id, input.ReservationID, input.AmountCents, card.Mask(input.CardNumber), now)
	if err != nil {
		return nil, err
	}
	// Settlement is synchronous and always succeeds once validation passed.
	if err := p.Settle(now); err != nil {
		return nil, err
	}
	if err := l.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("payment charged id=%s reservation=%s amount_cents=%d card=%s", p.ID, p.ReservationID, p.AmountCents, p.MaskedCard)
	l.publish(ctx, kafka.EventPaymentCharged, p)
	return p, nil
}

func (l *Ledger) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, domain.ErrPaymentIDRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	p, err := l.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := p.Refund(l.clock.Now()); err != nil {
		return nil, err
	}
	if err := l.payments.UpdateStatus(ctx, p); err != nil {
		return nil, err
	}

	log.Printf("payment refunded id=%s reservation=%s amount_cents=%d", p.ID, p.ReservationID, p.AmountCents)
	l.publish(ctx, kafka.EventPaymentRefunded, p)
	return p, nil
}

func (l *Ledger) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if strings.TrimSpace(paymentID) == "" {
		return nil, domain.ErrPaymentIDRequired
	}
	return l.payments.GetByID(ctx, paymentID)
}

func (l *Ledger) ListByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	if strings.TrimSpace(reservationID) == "" {
		return nil, domain.ErrReservationIDRequired
	}
	return l.payments.ListByReservation(ctx, reservationID)
}

// Stats folds over the ledger as it is now, so a refund removes its amount
// from revenue retroactively.
func (l *Ledger) Stats(ctx context.Context) (Stats, error) {
	all, err := l.payments.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Total: len(all)}
	for _, p := range all {
		switch p.Status {
		case domain.PaymentSuccess:
			st.Successful++
			st.TotalRevenueCents += p.AmountCents
		case domain.PaymentFailed:
			st.Failed++
		case domain.PaymentRefunded:
			st.Refunded++
		}
	}
	return st, nil
}

// VerifyPayment checks that paymentID settled successfully for reservationID.
func (l *Ledger) VerifyPayment(ctx context.Context, paymentID, reservationID string) error {
	p, err := l.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if p.ReservationID != reservationID {
		return domain.ErrPaymentForeign
	}
	if p.Status != domain.PaymentSuccess {
		return domain.ErrPaymentNotSettled
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, eventType string, p *domain.Payment) {
	if l.producer == nil || l.topic == "" {
		return
	}
	event := kafka.NewPaymentEvent(eventType, p, l.clock.Now())
	if err := l.producer.Publish(ctx, l.topic, p.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s for payment %s: %v", eventType, p.ID, err)
	}
}

var _ PaymentUseCase = (*Ledger)(nil)
