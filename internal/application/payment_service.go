package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/event"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	repo "github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/service"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

type PaymentEventPublisher interface {
	Publish(ctx context.Context, evt event.PaymentEvent) error
}

// IdempotencyStore remembers which payment a client key produced.
// Reserve returns reserved=true for a fresh key. For a known key it returns the stored
// payment id, or an empty id while the first request is still running.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (paymentID string, reserved bool, err error)
	Complete(ctx context.Context, key, paymentID string) error
	Release(ctx context.Context, key string) error
}

// idempotencySettleTimeout bounds Complete and Release, which outlive a cancelled request.
const idempotencySettleTimeout = 5 * time.Second

type PaymentService struct {
	Repo        repo.PaymentRepository
	Users       port.ExternalUserPort
	Domain      *service.PaymentDomainService
	Events      PaymentEventPublisher
	Idempotency IdempotencyStore
	Logger      *logrus.Logger
}

// NewPaymentService wires the payment use cases. events and idem may be nil.
func NewPaymentService(r repo.PaymentRepository, users port.ExternalUserPort, domain *service.PaymentDomainService, events PaymentEventPublisher, idem IdempotencyStore, logger *logrus.Logger) *PaymentService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PaymentService{Repo: r, Users: users, Domain: domain, Events: events, Idempotency: idem, Logger: logger}
}

// CreatePayment looks the user up through the port, validates, persists and publishes payment.created.
// Nothing is persisted when any step before Save fails.
func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) result.Result[PaymentOutput] {
	if in.IdempotencyKey != "" && s.Idempotency != nil {
		return s.createIdempotent(ctx, in)
	}
	return s.create(ctx, in)
}

func (s *PaymentService) createIdempotent(ctx context.Context, in CreatePaymentInput) result.Result[PaymentOutput] {
	paymentID, reserved, err := s.Idempotency.Reserve(ctx, in.IdempotencyKey)
	if err != nil {
		return result.Fail[PaymentOutput](fmt.Errorf("reserve idempotency key: %w", err))
	}
	if !reserved {
		if paymentID == "" {
			return result.Fail[PaymentOutput](errs.Conflict(errs.ReasonIdempotencyInFlight,
				"a request with this idempotency key is still being processed"))
		}
		return result.Map(s.GetPaymentByID(ctx, paymentID), func(out PaymentOutput) PaymentOutput {
			out.Replayed = true
			return out
		})
	}

	res := s.create(ctx, in)

	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencySettleTimeout)
	defer cancel()
	if res.IsFail() {
		if err := s.Idempotency.Release(settleCtx, in.IdempotencyKey); err != nil {
			s.Logger.WithError(err).WithField("idempotency_key", in.IdempotencyKey).Warn("idempotency release failed")
		}
		return res
	}
	if err := s.Idempotency.Complete(settleCtx, in.IdempotencyKey, res.Value().ID); err != nil {
		s.Logger.WithError(err).WithField("idempotency_key", in.IdempotencyKey).Warn("idempotency complete failed")
	}
	return res
}

func (s *PaymentService) create(ctx context.Context, in CreatePaymentInput) result.Result[PaymentOutput] {
	found := s.Users.FindByID(ctx, in.UserID)
	if found.IsFail() {
		if errors.Is(found.Err(), errs.ErrNotFound) {
			return result.Fail[PaymentOutput](errs.NotFound("User", in.UserID))
		}
		return result.Fail[PaymentOutput](found.Err())
	}
	user := found.Value()

	if res := s.Domain.ValidatePayment(in.Amount, in.Currency); res.IsFail() {
		return result.Fail[PaymentOutput](res.Err())
	}

	created := entity.NewPayment(in.UserID, in.Amount, in.Currency, in.Description)
	if created.IsFail() {
		return result.Fail[PaymentOutput](created.Err())
	}
	p := created.Value()

	if err := s.Repo.Save(ctx, p); err != nil {
		return result.Fail[PaymentOutput](fmt.Errorf("save payment: %w", err))
	}
	s.Logger.WithFields(logrus.Fields{"payment_id": p.ID, "user_id": p.UserID}).Info("payment created")

	s.publish(ctx, event.PaymentCreated, p, user)
	return result.Ok(toPaymentOutput(p, user))
}

// GetPaymentByID enriches with user data on a best-effort basis.
func (s *PaymentService) GetPaymentByID(ctx context.Context, id string) result.Result[PaymentOutput] {
	loaded := s.load(ctx, id)
	if loaded.IsFail() {
		return result.Fail[PaymentOutput](loaded.Err())
	}
	p := loaded.Value()
	return result.Ok(toPaymentOutput(p, s.enrich(ctx, p.UserID)))
}

func (s *PaymentService) GetPaymentsByUserID(ctx context.Context, userID string) result.Result[[]PaymentOutput] {
	if !s.Users.Exists(ctx, userID) {
		return result.Fail[[]PaymentOutput](errs.NotFound("User", userID))
	}

	payments, err := s.Repo.FindByUserID(ctx, userID)
	if err != nil {
		return result.Fail[[]PaymentOutput](fmt.Errorf("find payments by user: %w", err))
	}

	user := s.enrich(ctx, userID)
	out := make([]PaymentOutput, 0, len(payments))
	for _, p := range payments {
		out = append(out, toPaymentOutput(p, user))
	}
	return result.Ok(out)
}

func (s *PaymentService) CompletePayment(ctx context.Context, id string) result.Result[PaymentOutput] {
	return s.transition(ctx, id, (*entity.Payment).Complete, event.PaymentCompleted)
}

func (s *PaymentService) FailPayment(ctx context.Context, id string) result.Result[PaymentOutput] {
	return s.transition(ctx, id, (*entity.Payment).Fail, event.PaymentFailed)
}

func (s *PaymentService) transition(ctx context.Context, id string, apply func(*entity.Payment) result.Void, evt event.PaymentEventType) result.Result[PaymentOutput] {
	loaded := s.load(ctx, id)
	if loaded.IsFail() {
		return result.Fail[PaymentOutput](loaded.Err())
	}
	p := loaded.Value()

	if res := apply(p); res.IsFail() {
		return result.Fail[PaymentOutput](res.Err())
	}
	if err := s.Repo.Save(ctx, p); err != nil {
		return result.Fail[PaymentOutput](fmt.Errorf("save payment: %w", err))
	}
	s.Logger.WithFields(logrus.Fields{"payment_id": p.ID, "status": p.Status}).Info("payment status changed")

	user := s.enrich(ctx, p.UserID)
	s.publish(ctx, evt, p, user)
	return result.Ok(toPaymentOutput(p, user))
}

func (s *PaymentService) load(ctx context.Context, id string) result.Result[*entity.Payment] {
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return result.Fail[*entity.Payment](errs.NotFound("Payment", id))
		}
		return result.Fail[*entity.Payment](fmt.Errorf("find payment: %w", err))
	}
	return result.Ok(p)
}

func (s *PaymentService) enrich(ctx context.Context, userID string) entity.ExternalUserData {
	found := s.Users.FindByID(ctx, userID)
	if found.IsFail() {
		s.Logger.WithError(found.Err()).WithField("user_id", userID).Debug("user enrichment unavailable")
		return entity.ExternalUserData{ID: userID, Name: UnknownUser, Email: UnknownUser}
	}
	return found.Value()
}

// publish runs after the payment is persisted; a failure is logged and the request still succeeds.
func (s *PaymentService) publish(ctx context.Context, t event.PaymentEventType, p *entity.Payment, user entity.ExternalUserData) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event.NewPaymentEvent(t, p, user)); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"payment_id": p.ID, "event": t}).Warn("publish payment event failed")
	}
}
