package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-ports-adapters/config"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/worker"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-payment-worker", cfg.Env, cfg.LogLevel)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQPaymentQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sender worker.Sender
	if cfg.MailSendEnabled {
		mg, err := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		if err != nil {
			logger.WithError(err).Fatal("mail sending enabled but mailgun is not usable")
		}
		sender = mg
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; receipts are rendered but not mailed")
	}

	var archive worker.Archiver
	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to init GCS client")
		}
		defer func() { _ = gcs.Close() }()
		archive = worker.GCSArchiver{Client: gcs, Bucket: cfg.GCSBucket}
	}

	conn, ch, err := helpers.DialRabbit(cfg.RabbitMQURL, cfg.RabbitMQPaymentQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp dial")
	}
	defer func() {
		_ = ch.Close()
		_ = conn.Close()
	}()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		logger.WithError(err).Fatal("qos")
	}
	msgs, err := ch.Consume(cfg.RabbitMQPaymentQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	w := worker.NewReceiptWorker(sender, archive, cfg.CompanyName, cfg.SupportURL, logger)
	done := make(chan struct{})
	go func() {
		w.Run(ctx, msgs)
		close(done)
	}()

	logger.WithField("queue", cfg.RabbitMQPaymentQueue).Info("payment worker listening")
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case <-done:
		logger.Warn("delivery channel closed")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		logger.Warn("worker did not stop in time")
	}
}
