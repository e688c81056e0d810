package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"medsched/internal/notifier"
	"medsched/pkg/config"
	"medsched/pkg/kafka"
	kafka_config "medsched/pkg/kafka/config"
	kafka_middleware "medsched/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	worker := notifier.New(cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		cfg.AppointmentsTopic,
		ServiceName,
		cfg.AppointmentsDLQ,
		worker.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware())
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware())

	ctx, cancel := context.WithCancel(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cfg.Log.Info("Shutting down notifier")
		cancel()
	}()

	cfg.Log.Info("Starting Notifier worker", "topic", cfg.AppointmentsTopic)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
}
