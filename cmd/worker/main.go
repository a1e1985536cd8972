package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/email"
	"github.com/Domenick1991/flightbooking/internal/kafka"
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
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("kafka brokers are required for the notification worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emailSender, err := email.NewSender(cfg.SMTP)
	if err != nil {
		log.Fatalf("init email sender: %v", err)
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	log.Printf("consuming %s as %s", cfg.Kafka.NotificationsTopic, cfg.Kafka.GroupID)
	err = consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeBookingEvent(msg)
		if err != nil {
			log.Printf("decode event error: %v", err)
			return nil
		}
		if err := emailSender.Send(ctx, event); err != nil {
			// a failed delivery must not stall the partition
			log.Printf("send confirmation error: %v", err)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Printf("worker stopped")
}
