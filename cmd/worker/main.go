package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skyreserve/config"
	"github.com/Domenick1991/skyreserve/internal/email"
	"github.com/Domenick1991/skyreserve/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 || cfg.Kafka.NotificationsTopic == "" {
		log.Fatalf("worker requires kafka.brokers and kafka.notifications_topic")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()
	log.Printf("worker started topic=%s group=%s", cfg.Kafka.NotificationsTopic, cfg.Kafka.GroupID)

	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("decode event error offset=%d: %v", msg.Offset, err)
			return nil
		}
		return emailSender.Send(ctx, event)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("consumer stopped: %v", err)
		return
	}
	log.Printf("worker shut down")
}
