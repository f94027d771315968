package external

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/metrics"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// InstrumentedUserPort records call counts and latency around another port without changing its answers.
type InstrumentedUserPort struct {
	next    port.ExternalUserPort
	adapter string
	m       *metrics.Metrics
}

var _ port.ExternalUserPort = (*InstrumentedUserPort)(nil)

func NewInstrumentedUserPort(next port.ExternalUserPort, adapter string, m *metrics.Metrics) *InstrumentedUserPort {
	return &InstrumentedUserPort{next: next, adapter: adapter, m: m}
}

func (p *InstrumentedUserPort) FindByID(ctx context.Context, id string) result.Result[entity.ExternalUserData] {
	start := time.Now()
	res := p.next.FindByID(ctx, id)
	p.observe("find_by_id", outcome(res.Err()), start)
	return res
}

func (p *InstrumentedUserPort) Exists(ctx context.Context, id string) bool {
	start := time.Now()
	ok := p.next.Exists(ctx, id)
	o := "found"
	if !ok {
		o = "absent"
	}
	p.observe("exists", o, start)
	return ok
}

func (p *InstrumentedUserPort) FindByIDs(ctx context.Context, ids []string) map[string]entity.ExternalUserData {
	start := time.Now()
	out := p.next.FindByIDs(ctx, ids)
	o := "complete"
	if len(out) < len(uniqueIDs(ids)) {
		o = "partial"
	}
	p.observe("find_by_ids", o, start)
	return out
}

func (p *InstrumentedUserPort) observe(method, outcome string, start time.Time) {
	p.m.PortCalls.WithLabelValues(p.adapter, method, outcome).Inc()
	p.m.PortLatency.WithLabelValues(p.adapter, method).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errs.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
