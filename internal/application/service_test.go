package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/event"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/service"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/external"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// stubPort lets a test decide what each port method answers.
type stubPort struct {
	findByID func(ctx context.Context, id string) result.Result[entity.ExternalUserData]
	exists   func(ctx context.Context, id string) bool
}

func (s stubPort) FindByID(ctx context.Context, id string) result.Result[entity.ExternalUserData] {
	return s.findByID(ctx, id)
}

func (s stubPort) Exists(ctx context.Context, id string) bool {
	if s.exists == nil {
		return s.findByID(ctx, id).IsOk()
	}
	return s.exists(ctx, id)
}

func (s stubPort) FindByIDs(ctx context.Context, ids []string) map[string]entity.ExternalUserData {
	out := map[string]entity.ExternalUserData{}
	for _, id := range ids {
		if r := s.findByID(ctx, id); r.IsOk() {
			out[id] = r.Value()
		}
	}
	return out
}

type recordingEvents struct {
	mu     sync.Mutex
	events []event.PaymentEvent
	err    error
}

func (r *recordingEvents) Publish(_ context.Context, evt event.PaymentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return r.err
}

type memoryIdempotency struct {
	mu   sync.Mutex
	keys map[string]string
}

func (m *memoryIdempotency) Reserve(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.keys[key]; ok {
		return v, false, nil
	}
	m.keys[key] = ""
	return "", true, nil
}

func (m *memoryIdempotency) Complete(_ context.Context, key, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[key] = paymentID
	return nil
}

func (m *memoryIdempotency) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, key)
	return nil
}

type fixture struct {
	users    *application.UserService
	payments *application.PaymentService
	userRepo *memory.UserRepository
	payRepo  *memory.PaymentRepository
	events   *recordingEvents
	idem     *memoryIdempotency
}

func newFixture(t *testing.T, override port.ExternalUserPort) *fixture {
	t.Helper()
	logger := helpers.NewNopLogger()
	userRepo := memory.NewUserRepository()
	payRepo := memory.NewPaymentRepository()

	var users port.ExternalUserPort = external.NewLocalUserAdapter(userRepo, logger)
	if override != nil {
		users = override
	}

	f := &fixture{
		userRepo: userRepo,
		payRepo:  payRepo,
		events:   &recordingEvents{},
		idem:     &memoryIdempotency{keys: map[string]string{}},
	}
	domain := service.NewUserDomainService(userRepo, helpers.NewPasswordHasher(bcrypt.MinCost))
	f.users = application.NewUserService(userRepo, domain, nil, logger)
	f.payments = application.NewPaymentService(payRepo, users, service.NewPaymentDomainService(), f.events, f.idem, logger)
	return f
}

func (f *fixture) createUser(t *testing.T, email string) application.UserOutput {
	t.Helper()
	res := f.users.CreateUser(context.Background(), application.CreateUserInput{Email: email, Name: "Ann", Password: "12345678"})
	require.True(t, res.IsOk(), "create user: %v", res.Err())
	return res.Value()
}

func strPtr(s string) *string { return &s }

func TestCreateUserStoresNormalizedEmailAndHash(t *testing.T) {
	f := newFixture(t, nil)
	out := f.createUser(t, "  A@B.com ")
	assert.Equal(t, "a@b.com", out.Email)

	stored, err := f.userRepo.FindByID(context.Background(), out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("12345678")))
}

func TestCreateUserDuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "a@b.com")

	res := f.users.CreateUser(context.Background(), application.CreateUserInput{Email: "A@B.COM", Name: "Other", Password: "12345678"})
	require.True(t, res.IsFail())
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)
}

func TestCreateUserInvalidInput(t *testing.T) {
	f := newFixture(t, nil)
	res := f.users.CreateUser(context.Background(), application.CreateUserInput{Email: "nope", Name: "Ann", Password: "12345678"})
	assert.ErrorIs(t, res.Err(), errs.ErrValidation)

	all := f.users.GetUsers(context.Background(), application.ListUsersInput{})
	require.True(t, all.IsOk())
	assert.Empty(t, all.Value().Users)
}

func TestGetUserByIDIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	created := f.createUser(t, "a@b.com")

	first := f.users.GetUserByID(context.Background(), created.ID)
	second := f.users.GetUserByID(context.Background(), created.ID)
	require.True(t, first.IsOk())
	assert.Equal(t, first.Value(), second.Value())

	missing := f.users.GetUserByID(context.Background(), "missing")
	assert.ErrorIs(t, missing.Err(), errs.ErrUserNotFound)
}

func TestGetUsersAppliesDefaultsAndCap(t *testing.T) {
	f := newFixture(t, nil)
	f.createUser(t, "a@b.com")
	f.createUser(t, "c@d.com")

	res := f.users.GetUsers(context.Background(), application.ListUsersInput{Limit: 500, Offset: -3})
	require.True(t, res.IsOk())
	assert.Equal(t, application.MaxListLimit, res.Value().Limit)
	assert.Equal(t, 0, res.Value().Offset)
	assert.Len(t, res.Value().Users, 2)

	res = f.users.GetUsers(context.Background(), application.ListUsersInput{Limit: 1, Offset: 1})
	require.True(t, res.IsOk())
	assert.Len(t, res.Value().Users, 1)
}

func TestUpdateUserPartial(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	created := f.createUser(t, "a@b.com")
	other := f.createUser(t, "taken@b.com")

	res := f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Name: strPtr("  Annie ")})
	require.True(t, res.IsOk())
	assert.Equal(t, "Annie", res.Value().Name)
	assert.Equal(t, "a@b.com", res.Value().Email)

	// same address in another case is not a change and skips the uniqueness check
	res = f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Email: strPtr("A@B.COM")})
	require.True(t, res.IsOk())

	res = f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Email: strPtr(other.Email)})
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)

	res = f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Name: strPtr("x")})
	assert.ErrorIs(t, res.Err(), errs.ErrValidation)

	res = f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Password: strPtr("short")})
	assert.ErrorIs(t, res.Err(), errs.ErrValidation)

	res = f.users.UpdateUser(ctx, created.ID, application.UpdateUserInput{Password: strPtr("new-password")})
	require.True(t, res.IsOk())
	stored, _ := f.userRepo.FindByID(ctx, created.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("new-password")))
	assert.Equal(t, 3, stored.Version)

	res = f.users.UpdateUser(ctx, "missing", application.UpdateUserInput{Name: strPtr("Bob")})
	assert.ErrorIs(t, res.Err(), errs.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t, nil)
	created := f.createUser(t, "a@b.com")

	require.True(t, f.users.DeleteUser(context.Background(), created.ID).IsOk())
	assert.ErrorIs(t, f.users.DeleteUser(context.Background(), created.ID).Err(), errs.ErrUserNotFound)
}

func TestGetUsersByIDsSkipsUnknown(t *testing.T) {
	f := newFixture(t, nil)
	a := f.createUser(t, "a@b.com")

	res := f.users.GetUsersByIDs(context.Background(), []string{"missing", a.ID})
	require.True(t, res.IsOk())
	assert.Equal(t, []entity.ExternalUserData{{ID: a.ID, Email: "a@b.com", Name: "Ann"}}, res.Value())
}

func TestSearchUsersWithoutIndex(t *testing.T) {
	f := newFixture(t, nil)
	res := f.users.SearchUsers(context.Background(), "ann", 10)
	require.True(t, res.IsOk())
	assert.Empty(t, res.Value())
}

func TestCreatePayment(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t, "a@b.com")

	res := f.payments.CreatePayment(context.Background(), application.CreatePaymentInput{
		UserID: user.ID, Amount: 100.50, Currency: "usd", Description: "coffee",
	})
	require.True(t, res.IsOk(), "err: %v", res.Err())
	out := res.Value()
	assert.Equal(t, "PENDING", out.Status)
	assert.Equal(t, "USD", out.Currency)
	assert.Equal(t, "Ann", out.UserName)
	assert.Equal(t, "a@b.com", out.UserEmail)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, event.PaymentCreated, f.events.events[0].Type)
	assert.Equal(t, out.ID, f.events.events[0].PaymentID)
}

func TestCreatePaymentFailuresSkipPersistence(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t, "a@b.com")
	ctx := context.Background()

	tests := []struct {
		name   string
		in     application.CreatePaymentInput
		target error
		reason string
	}{
		{"unknown user", application.CreatePaymentInput{UserID: "missing", Amount: 10, Currency: "USD"}, errs.ErrUserNotFound, errs.ReasonUserNotFound},
		{"zero amount", application.CreatePaymentInput{UserID: user.ID, Amount: 0, Currency: "USD"}, errs.ErrValidation, errs.ReasonPaymentValidationFailed},
		{"above ceiling", application.CreatePaymentInput{UserID: user.ID, Amount: 10_000_001, Currency: "USD"}, errs.ErrValidation, errs.ReasonPaymentValidationFailed},
		{"sub-cent amount", application.CreatePaymentInput{UserID: user.ID, Amount: 0.001, Currency: "USD"}, errs.ErrValidation, errs.ReasonPaymentValidationFailed},
		{"unsupported currency", application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "jpy"}, errs.ErrValidation, errs.ReasonPaymentValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.payments.CreatePayment(ctx, tt.in)
			require.True(t, res.IsFail())
			assert.ErrorIs(t, res.Err(), tt.target)
			e, ok := errs.As(res.Err())
			require.True(t, ok)
			assert.Equal(t, tt.reason, e.Reason)
		})
	}

	list, err := f.payRepo.FindByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.events.events)
}

func TestCreatePaymentLookupFailurePropagates(t *testing.T) {
	f := newFixture(t, stubPort{findByID: func(context.Context, string) result.Result[entity.ExternalUserData] {
		return result.Fail[entity.ExternalUserData](errs.LookupFailed("user lookup failed", errors.New("dial tcp: refused")))
	}})

	res := f.payments.CreatePayment(context.Background(), application.CreatePaymentInput{UserID: "u1", Amount: 10, Currency: "USD"})
	assert.ErrorIs(t, res.Err(), errs.ErrLookupFailed)
	assert.NotErrorIs(t, res.Err(), errs.ErrNotFound)
}

func TestCreatePaymentSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.events.err = errors.New("broker down")
	user := f.createUser(t, "a@b.com")

	res := f.payments.CreatePayment(context.Background(), application.CreatePaymentInput{UserID: user.ID, Amount: 5, Currency: "EUR"})
	require.True(t, res.IsOk())
	_, err := f.payRepo.FindByID(context.Background(), res.Value().ID)
	assert.NoError(t, err)
}

func TestGetPaymentByIDFallsBackToUnknownUser(t *testing.T) {
	f := newFixture(t, nil)
	user := f.createUser(t, "a@b.com")
	created := f.payments.CreatePayment(context.Background(), application.CreatePaymentInput{UserID: user.ID, Amount: 5, Currency: "GBP"}).Value()

	require.True(t, f.users.DeleteUser(context.Background(), user.ID).IsOk())

	res := f.payments.GetPaymentByID(context.Background(), created.ID)
	require.True(t, res.IsOk())
	assert.Equal(t, application.UnknownUser, res.Value().UserName)
	assert.Equal(t, application.UnknownUser, res.Value().UserEmail)
	assert.Equal(t, user.ID, res.Value().UserID)

	missing := f.payments.GetPaymentByID(context.Background(), "missing")
	assert.ErrorIs(t, missing.Err(), errs.ErrPaymentNotFound)
}

func TestGetPaymentsByUserID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	for _, amount := range []float64{1, 2} {
		require.True(t, f.payments.CreatePayment(ctx, application.CreatePaymentInput{UserID: user.ID, Amount: amount, Currency: "USD"}).IsOk())
	}

	res := f.payments.GetPaymentsByUserID(ctx, user.ID)
	require.True(t, res.IsOk())
	require.Len(t, res.Value(), 2)
	for _, p := range res.Value() {
		assert.Equal(t, "Ann", p.UserName)
	}

	missing := f.payments.GetPaymentsByUserID(ctx, "missing")
	assert.ErrorIs(t, missing.Err(), errs.ErrUserNotFound)
}

func TestGetPaymentsByUserIDTreatsUncheckableUserAsMissing(t *testing.T) {
	f := newFixture(t, stubPort{
		findByID: func(context.Context, string) result.Result[entity.ExternalUserData] {
			return result.Fail[entity.ExternalUserData](errs.LookupFailed("user lookup failed", nil))
		},
		exists: func(context.Context, string) bool { return false },
	})
	res := f.payments.GetPaymentsByUserID(context.Background(), "u1")
	assert.ErrorIs(t, res.Err(), errs.ErrUserNotFound)
}

func TestCompleteAndFailPayment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	p := f.payments.CreatePayment(ctx, application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "VND"}).Value()

	done := f.payments.CompletePayment(ctx, p.ID)
	require.True(t, done.IsOk())
	assert.Equal(t, "COMPLETED", done.Value().Status)

	again := f.payments.CompletePayment(ctx, p.ID)
	require.True(t, again.IsFail())
	assert.ErrorIs(t, again.Err(), errs.ErrBusinessRule)
	assert.Contains(t, again.Err().Error(), "only pending payments can be completed")

	failed := f.payments.FailPayment(ctx, p.ID)
	assert.ErrorIs(t, failed.Err(), errs.ErrBusinessRule)

	stored, err := f.payRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCompleted, stored.Status)

	require.Len(t, f.events.events, 2)
	assert.Equal(t, event.PaymentCompleted, f.events.events[1].Type)

	other := f.payments.CreatePayment(ctx, application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "VND"}).Value()
	res := f.payments.FailPayment(ctx, other.ID)
	require.True(t, res.IsOk())
	assert.Equal(t, "FAILED", res.Value().Status)

	assert.ErrorIs(t, f.payments.CompletePayment(ctx, "missing").Err(), errs.ErrPaymentNotFound)
}

func TestCreatePaymentIdempotencyKey(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")
	in := application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "USD", IdempotencyKey: "key-1"}

	first := f.payments.CreatePayment(ctx, in)
	require.True(t, first.IsOk())
	assert.False(t, first.Value().Replayed)

	replay := f.payments.CreatePayment(ctx, in)
	require.True(t, replay.IsOk())
	assert.True(t, replay.Value().Replayed)
	assert.Equal(t, first.Value().ID, replay.Value().ID)

	list, _ := f.payRepo.FindByUserID(ctx, user.ID)
	assert.Len(t, list, 1)
}

func TestCreatePaymentIdempotencyInFlightAndRelease(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.createUser(t, "a@b.com")

	f.idem.keys["busy"] = ""
	res := f.payments.CreatePayment(ctx, application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "USD", IdempotencyKey: "busy"})
	assert.ErrorIs(t, res.Err(), errs.ErrConflict)

	bad := application.CreatePaymentInput{UserID: user.ID, Amount: 0, Currency: "USD", IdempotencyKey: "retry"}
	assert.True(t, f.payments.CreatePayment(ctx, bad).IsFail())
	assert.NotContains(t, f.idem.keys, "retry")

	bad.Amount = 3
	assert.True(t, f.payments.CreatePayment(ctx, bad).IsOk())
}

// ctxIdempotency refuses work on a done context, like a network-backed store.
type ctxIdempotency struct {
	memoryIdempotency
}

func (c *ctxIdempotency) Reserve(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.memoryIdempotency.Reserve(ctx, key)
}

func (c *ctxIdempotency) Complete(ctx context.Context, key, paymentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.memoryIdempotency.Complete(ctx, key, paymentID)
}

func (c *ctxIdempotency) Release(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.memoryIdempotency.Release(ctx, key)
}

func TestCreatePaymentIdempotencyKeySettlesAfterCancel(t *testing.T) {
	base := newFixture(t, nil)
	user := base.createUser(t, "a@b.com")
	local := external.NewLocalUserAdapter(base.userRepo, helpers.NewNopLogger())

	var cancelLookup context.CancelFunc
	var lookupErr bool
	users := stubPort{findByID: func(ctx context.Context, id string) result.Result[entity.ExternalUserData] {
		cancelLookup()
		if lookupErr {
			return result.Fail[entity.ExternalUserData](errs.LookupFailed("user lookup failed", context.Canceled))
		}
		return local.FindByID(context.Background(), id)
	}}
	store := &ctxIdempotency{memoryIdempotency{keys: map[string]string{}}}
	payments := application.NewPaymentService(base.payRepo, users, service.NewPaymentDomainService(), nil, store, helpers.NewNopLogger())
	in := application.CreatePaymentInput{UserID: user.ID, Amount: 10, Currency: "USD"}

	t.Run("failed request releases the key", func(t *testing.T) {
		lookupErr = true
		in.IdempotencyKey = "cancelled-fail"
		ctx, cancel := context.WithCancel(context.Background())
		cancelLookup = cancel

		res := payments.CreatePayment(ctx, in)
		require.ErrorIs(t, res.Err(), errs.ErrLookupFailed)
		assert.NotContains(t, store.keys, "cancelled-fail")
	})

	t.Run("saved payment completes the key", func(t *testing.T) {
		lookupErr = false
		in.IdempotencyKey = "cancelled-ok"
		ctx, cancel := context.WithCancel(context.Background())
		cancelLookup = cancel

		first := payments.CreatePayment(ctx, in)
		require.True(t, first.IsOk(), "err: %v", first.Err())
		assert.Equal(t, first.Value().ID, store.keys["cancelled-ok"])

		cancelLookup = func() {}
		replay := payments.CreatePayment(context.Background(), in)
		require.True(t, replay.IsOk(), "err: %v", replay.Err())
		assert.True(t, replay.Value().Replayed)
		assert.Equal(t, first.Value().ID, replay.Value().ID)
	})
}
