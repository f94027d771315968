package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/event"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/metrics"
)

type recordingPublisher struct {
	msgType, messageID string
	body               any
	err                error
}

func (r *recordingPublisher) PublishJSON(ctx context.Context, msgType, messageID string, body any) error {
	_, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return errors.New("publish without deadline")
	}
	r.msgType, r.messageID, r.body = msgType, messageID, body
	return r.err
}

func TestPublishSetsTypeAndMessageID(t *testing.T) {
	rec := &recordingPublisher{}
	pub := NewPaymentEventPublisher(rec, metrics.New("test", prometheus.NewRegistry()))

	p := entity.NewPayment("u1", 12.5, "usd", "").Value()
	evt := event.NewPaymentEvent(event.PaymentCreated, p, entity.ExternalUserData{ID: "u1", Email: "a@b.com", Name: "Ann"})

	require.NoError(t, pub.Publish(context.Background(), evt))
	assert.Equal(t, "payment.created", rec.msgType)
	assert.Equal(t, p.ID+":payment.created", rec.messageID)
	assert.Equal(t, evt, rec.body)
}

func TestPublishReturnsBrokerError(t *testing.T) {
	rec := &recordingPublisher{err: errors.New("channel closed")}
	pub := NewPaymentEventPublisher(rec, nil)

	p := entity.NewPayment("u1", 1, "EUR", "").Value()
	err := pub.Publish(context.Background(), event.NewPaymentEvent(event.PaymentFailed, p, entity.ExternalUserData{}))
	assert.EqualError(t, err, "channel closed")
}
