// Package messaging publishes domain events to RabbitMQ.
package messaging

import (
	"context"
	"time"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/event"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/metrics"
)

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, msgType, messageID string, body any) error
}

type PaymentEventPublisher struct {
	pub     JSONPublisher
	metrics *metrics.Metrics
	timeout time.Duration
}

// NewPaymentEventPublisher wraps pub. m may be nil.
func NewPaymentEventPublisher(pub JSONPublisher, m *metrics.Metrics) *PaymentEventPublisher {
	return &PaymentEventPublisher{pub: pub, metrics: m, timeout: 3 * time.Second}
}

// Publish sends evt with a message id of "<paymentId>:<type>" so consumers can drop duplicates.
func (p *PaymentEventPublisher) Publish(ctx context.Context, evt event.PaymentEvent) error {
	c, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.pub.PublishJSON(c, string(evt.Type), evt.PaymentID+":"+string(evt.Type), evt)
	if p.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		p.metrics.EventsPublished.WithLabelValues(string(evt.Type), outcome).Inc()
	}
	return err
}
