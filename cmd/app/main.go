package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/skyreserve/config"
	"github.com/Domenick1991/skyreserve/internal/bootstrap"
	"github.com/Domenick1991/skyreserve/internal/cache"
	"github.com/Domenick1991/skyreserve/internal/clock"
	"github.com/Domenick1991/skyreserve/internal/idgen"
	"github.com/Domenick1991/skyreserve/internal/kafka"
	"github.com/Domenick1991/skyreserve/internal/lock"
	"github.com/Domenick1991/skyreserve/internal/repository"
	"github.com/Domenick1991/skyreserve/internal/service/flights"
	"github.com/Domenick1991/skyreserve/internal/service/payment"
	"github.com/Domenick1991/skyreserve/internal/service/reservation"
	"github.com/Domenick1991/skyreserve/migrations"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type storage struct {
	flights      repository.FlightRepository
	reservations repository.ReservationRepository
	payments     repository.PaymentRepository
	tx           repository.TxManager
	close        func()
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.close()

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache = cache.NewRedisCache(cfg.Redis, cfg.Flights.CacheTTL())
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			log.Fatalf("connect redis: %v", err)
		}
	}

	clk := clock.NewSystem()
	reservationIDs, paymentIDs := newIDGenerators(cfg, redisCache)
	locker := newLocker(cfg, redisCache)

	var flightCache flights.FlightCache
	var ledgerOpts []payment.LedgerOption
	reservationOpts := []reservation.ReservationServiceOption{reservation.WithTxManager(store.tx)}

	if redisCache != nil {
		flightCache = redisCache
		reservationOpts = append(reservationOpts, reservation.WithFlightCache(redisCache))
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, kafka.WithAttempts(cfg.Kafka.PublishAttempts))
		defer producer.Close()

		checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := producer.CheckConnection(checkCtx); err != nil {
			log.Printf("WARNING: kafka unavailable, events will fail to publish: %v", err)
		}
		cancel()

		ledgerOpts = append(ledgerOpts, payment.WithProducer(producer, cfg.Kafka.PaymentsTopic))
		reservationOpts = append(reservationOpts,
			reservation.WithProducer(producer, cfg.Kafka.ReservationsTopic),
			reservation.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		)
	}

	flightService := flights.NewFlightService(store.flights, flightCache)
	ledger := payment.NewLedger(store.payments, paymentIDs, clk, ledgerOpts...)
	reservationOpts = append(reservationOpts, reservation.WithPaymentVerifier(ledger))
	reservationService := reservation.NewReservationService(
		store.reservations,
		store.flights,
		locker,
		reservationIDs,
		clk,
		reservationOpts...,
	)

	if cfg.Flights.SeedFile != "" {
		inputs, err := flights.LoadSeedFile(cfg.Flights.SeedFile)
		if err != nil {
			log.Fatalf("load flight seed: %v", err)
		}
		added, err := flightService.Seed(ctx, inputs)
		if err != nil {
			log.Fatalf("seed flights: %v", err)
		}
		log.Printf("flights seeded file=%s added=%d", cfg.Flights.SeedFile, added)
	}

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Flights:      flightService,
		Reservations: reservationService,
		Payments:     ledger,
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		return &storage{
			flights:      repository.NewMemoryFlightRepository(),
			reservations: repository.NewMemoryReservationRepository(),
			payments:     repository.NewMemoryPaymentRepository(),
			tx:           repository.NoTx{},
			close:        func() {},
		}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, err
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		flights:      repository.NewFlightRepository(pool),
		reservations: repository.NewReservationRepository(pool),
		payments:     repository.NewPaymentRepository(pool),
		tx:           repository.NewTxManager(pool),
		close:        pool.Close,
	}, nil
}

func newIDGenerators(cfg *config.Config, redisCache *cache.RedisCache) (idgen.Generator, idgen.Generator) {
	switch cfg.IDs.Backend {
	case config.BackendRedis:
		return idgen.NewRedisSequence(redisCache.Client(), "ids:reservations", cfg.IDs.ReservationPrefix, cfg.IDs.ReservationBase),
			idgen.NewRedisSequence(redisCache.Client(), "ids:payments", cfg.IDs.PaymentPrefix, cfg.IDs.PaymentBase)
	case config.BackendUUID:
		return idgen.NewUUID(cfg.IDs.ReservationPrefix), idgen.NewUUID(cfg.IDs.PaymentPrefix)
	}
	return idgen.NewSequence(cfg.IDs.ReservationPrefix, cfg.IDs.ReservationBase),
		idgen.NewSequence(cfg.IDs.PaymentPrefix, cfg.IDs.PaymentBase)
}

func newLocker(cfg *config.Config, redisCache *cache.RedisCache) lock.Locker {
	if cfg.Locks.Backend == config.BackendRedis {
		return lock.NewDistributed(redisCache, cfg.Locks.TTL(), cfg.Locks.Wait(), uuid.NewString)
	}
	return lock.NewLocal()
}
