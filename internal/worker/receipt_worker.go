// Package worker turns payment events from the broker into receipts.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/event"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ddd-ports-adapters/pkg/mailer/templates"
)

// Sender is satisfied by mailer.Mailgun.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Archiver stores a rendered receipt and returns where it went.
type Archiver interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// GCSArchiver uploads receipts to a Cloud Storage bucket.
type GCSArchiver struct {
	Client *storage.Client
	Bucket string
}

func (a GCSArchiver) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, a.Client, a.Bucket, objectPath, contentType, r)
}

// Outcome tells the consumer loop what to do with a delivery.
type Outcome int

const (
	Ack Outcome = iota
	// Drop rejects without requeue; the message can never succeed.
	Drop
	// Requeue hands the message back to the broker for another attempt.
	Requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "requeue"
	}
}

// ReceiptWorker renders a receipt per payment event, mails it when a sender is set
// and archives the HTML when an archiver is set.
type ReceiptWorker struct {
	Sender      Sender
	Archive     Archiver
	CompanyName string
	SupportURL  string
	SendTimeout time.Duration
	Logger      *logrus.Logger
}

func NewReceiptWorker(sender Sender, archive Archiver, companyName, supportURL string, logger *logrus.Logger) *ReceiptWorker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReceiptWorker{
		Sender:      sender,
		Archive:     archive,
		CompanyName: companyName,
		SupportURL:  supportURL,
		SendTimeout: 15 * time.Second,
		Logger:      logger,
	}
}

// ArchivePath is where the receipt for one event is stored.
func ArchivePath(evt event.PaymentEvent) string {
	return fmt.Sprintf("receipts/%s/%s.html", evt.PaymentID, evt.Type)
}

// Process handles one message body.
func (w *ReceiptWorker) Process(ctx context.Context, body []byte) Outcome {
	var evt event.PaymentEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		w.Logger.WithError(err).Warn("bad payment event")
		return Drop
	}
	if evt.PaymentID == "" || evt.Type == "" {
		w.Logger.Warn("payment event without id or type")
		return Drop
	}
	log := w.Logger.WithFields(logrus.Fields{"payment_id": evt.PaymentID, "event": evt.Type})

	data := mailtpl.NewReceiptData(
		mailtpl.WithCompany(w.CompanyName),
		mailtpl.WithSupportURL(w.SupportURL),
		mailtpl.WithRecipient(evt.UserName, evt.UserEmail),
		mailtpl.WithPayment(evt.PaymentID, evt.Amount, evt.Currency, evt.Status, evt.Description),
		mailtpl.WithEvent(string(evt.Type), evt.OccurredAt),
	)
	subject, text, html, err := mailtpl.Render(mailtpl.Receipt, data)
	if err != nil {
		log.WithError(err).Error("render receipt failed")
		return Drop
	}

	if w.Sender != nil {
		if !deliverable(evt.UserEmail) {
			log.Info("no deliverable address, receipt not mailed")
		} else {
			c, cancel := context.WithTimeout(ctx, w.SendTimeout)
			err := w.Sender.Send(c, evt.UserEmail, subject, text, html)
			cancel()
			if err != nil {
				log.WithError(err).Warn("send receipt failed")
				return Requeue
			}
		}
	}

	if w.Archive != nil {
		uri, err := w.Archive.Upload(ctx, ArchivePath(evt), "text/html; charset=utf-8", bytes.NewBufferString(html))
		if err != nil {
			// not requeued: the mail is already out
			log.WithError(err).Warn("archive receipt failed")
		} else {
			log.WithField("uri", uri).Debug("receipt archived")
		}
	}
	return Ack
}

// Run consumes deliveries until the channel closes or ctx is done.
func (w *ReceiptWorker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			outcome := w.Process(ctx, d.Body)
			var err error
			switch outcome {
			case Ack:
				err = d.Ack(false)
			case Drop:
				err = d.Nack(false, false)
			case Requeue:
				err = d.Nack(false, true)
			}
			if err != nil {
				w.Logger.WithError(err).WithField("outcome", outcome.String()).Warn("delivery settle failed")
			}
		}
	}
}

// deliverable filters out the placeholder used when user enrichment failed.
func deliverable(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && email != application.UnknownUser && strings.Contains(email, "@")
}
