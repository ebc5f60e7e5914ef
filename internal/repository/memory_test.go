package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlight(t *testing.T, id string, seats int) *domain.Flight {
	t.Helper()
	dep := time.Date(2025, time.October, 16, 8, 30, 0, 0, time.UTC)
	f, err := domain.NewFlight(id, "Aeroflot", "SVO", "LED", dep, dep.Add(85*time.Minute), seats, 10000)
	require.NoError(t, err)
	return f
}

func TestMemoryFlightRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryFlightRepository()

	require.NoError(t, repo.Create(ctx, testFlight(t, "FL001", 3)))
	require.NoError(t, repo.Create(ctx, testFlight(t, "FL002", 5)))
	assert.ErrorIs(t, repo.Create(ctx, testFlight(t, "FL001", 1)), domain.ErrFlightExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "FL001", list[0].ID)
	assert.Equal(t, "FL002", list[1].ID)

	f, err := repo.GetByID(ctx, "FL001")
	require.NoError(t, err)
	f.AvailableSeats = 0

	// The copy returned by GetByID is detached until UpdateSeats.
	stored, err := repo.GetByID(ctx, "FL001")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.AvailableSeats)

	require.NoError(t, repo.UpdateSeats(ctx, f))
	stored, err = repo.GetByID(ctx, "FL001")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.AvailableSeats)

	_, err = repo.GetByID(ctx, "FL404")
	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
	assert.ErrorIs(t, repo.UpdateSeats(ctx, testFlight(t, "FL404", 1)), domain.ErrFlightNotFound)
}

func TestMemoryReservationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryReservationRepository()
	flight := testFlight(t, "FL001", 3)

	res := domain.NewReservation("RES1001", flight)
	traveler, err := domain.NewTraveler("T1", "Ivan", "Petrov", "Ivan@Example.com", "", 40)
	require.NoError(t, err)
	require.NoError(t, res.AddTraveler(traveler))
	require.NoError(t, repo.Create(ctx, res))
	require.NoError(t, repo.Create(ctx, domain.NewReservation("RES1002", flight)))

	got, err := repo.GetByID(ctx, "RES1001")
	require.NoError(t, err)
	assert.Equal(t, 1, got.TravelerCount())

	// Mutating the returned value does not leak into the store.
	got.Travelers[0].Email = "changed@example.com"
	again, err := repo.GetByID(ctx, "RES1001")
	require.NoError(t, err)
	assert.Equal(t, "Ivan@Example.com", again.Travelers[0].Email)

	found, err := repo.FindByTravelerEmail(ctx, "ivan@example.COM")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "RES1001", found[0].ID)

	found, err = repo.FindByTravelerEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.NotNil(t, found)
	assert.Empty(t, found)

	require.NoError(t, repo.Delete(ctx, "RES1002"))
	assert.ErrorIs(t, repo.Delete(ctx, "RES1002"), domain.ErrReservationNotFound)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.GetByID(ctx, "RES9999")
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
	assert.ErrorIs(t, repo.Update(ctx, domain.NewReservation("RES9999", flight)), domain.ErrReservationNotFound)
}

func TestMemoryPaymentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPaymentRepository()
	now := time.Now()

	p1, err := domain.NewPayment("PAY5001", "RES1001", 100, "4532****0366", now)
	require.NoError(t, err)
	p2, err := domain.NewPayment("PAY5002", "RES1002", 200, "4532****0366", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))

	require.NoError(t, p1.Settle(now))
	require.NoError(t, repo.UpdateStatus(ctx, p1))

	got, err := repo.GetByID(ctx, "PAY5001")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSuccess, got.Status)

	byRes, err := repo.ListByReservation(ctx, "RES1002")
	require.NoError(t, err)
	require.Len(t, byRes, 1)
	assert.Equal(t, "PAY5002", byRes[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.GetByID(ctx, "PAY0")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}

func TestNoTx(t *testing.T) {
	called := false
	err := NoTx{}.WithTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
