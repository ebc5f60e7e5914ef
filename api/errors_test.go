package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid argument", err: domain.ErrInvalidCVV, want: http.StatusBadRequest},
		{name: "wrapped invalid argument", err: fmt.Errorf("charge: %w", domain.ErrAmountNotPositive), want: http.StatusBadRequest},
		{name: "illegal state", err: domain.ErrReservationConfirmed, want: http.StatusConflict},
		{name: "not found", err: domain.ErrPaymentNotFound, want: http.StatusNotFound},
		{name: "deadline", err: fmt.Errorf("lock: %w", context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "other", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusFor(tc.err))
		})
	}
}

func TestWriteError_HidesKindOfInternalFailures(t *testing.T) {
	c, w := newTestContext("GET", "/api/flights", "")

	writeError(c, errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "internal", body["code"])
}

func TestWriteError_DeadlineExceeded(t *testing.T) {
	c, w := newTestContext("POST", "/api/reservations/RES1001/confirm", "")

	writeError(c, fmt.Errorf("lock reservation RES1001: %w", context.DeadlineExceeded))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "deadline_exceeded", body["code"])
	assert.NotEqual(t, "unknown", body["code"])
}
