package email

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Domenick1991/skyreserve/internal/kafka"
)

// Sender writes notification mails to out; no SMTP relay is configured.
type Sender struct {
	out io.Writer
}

func NewSender() *Sender {
	return &Sender{out: os.Stdout}
}

func NewSenderTo(out io.Writer) *Sender {
	return &Sender{out: out}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	for _, to := range event.Emails {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(s.out, "send email to %s: %s for reservation %s on flight %s (%s)\n",
			to, Subject(event.Type), event.ReservationID, event.FlightID, event.Status); err != nil {
			return err
		}
	}
	return nil
}

func Subject(eventType string) string {
	switch eventType {
	case kafka.EventReservationConfirmed:
		return "your reservation is confirmed"
	case kafka.EventReservationCancelled:
		return "your reservation was cancelled"
	default:
		return eventType
	}
}
