package router

import (
	"errors"

	"github.com/oksasatya/go-ddd-ports-adapters/config"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/application"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/container"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/service"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/cache"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/external"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/messaging"
	pginfra "github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-ddd-ports-adapters/internal/interface/http"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/router/modules"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
)

type Deps struct {
	Users      repository.UserRepository
	Payments   repository.PaymentRepository
	UserPort   port.ExternalUserPort
	UserSvc    *application.UserService
	PaymentSvc *application.PaymentService
}

func buildRepositories(cfg *config.Config) (repository.UserRepository, repository.PaymentRepository, error) {
	if cfg.StorageDriver == config.StoragePostgres {
		pool := container.GetPGPool()
		if pool == nil {
			return nil, nil, errors.New("router: STORAGE_DRIVER=postgres but no pool was provided")
		}
		return pginfra.NewUserRepository(pool), pginfra.NewPaymentRepository(pool), nil
	}
	return memory.NewUserRepository(), memory.NewPaymentRepository(), nil
}

// buildUserPort picks the adapter once for the life of the process.
func buildUserPort(cfg *config.Config, users repository.UserRepository) port.ExternalUserPort {
	logger := container.GetLogger()

	var p port.ExternalUserPort
	if cfg.UserPortAdapter == config.AdapterHTTP {
		adapterCfg := external.HTTPUserAdapterConfig{
			BaseURL: cfg.UserServiceURL,
			Timeout: cfg.UserServiceTimeout,
		}
		if tokens := container.GetServiceTokens(); tokens != nil {
			adapterCfg.Tokens = tokens
		}
		p = external.NewHTTPUserAdapter(adapterCfg, nil, logger)
	} else {
		p = external.NewLocalUserAdapter(users, logger)
	}

	if m := container.GetMetrics(); m != nil {
		p = external.NewInstrumentedUserPort(p, cfg.UserPortAdapter, m)
	}
	logger.WithField("adapter", cfg.UserPortAdapter).Info("external user port ready")
	return p
}

func buildDeps() (Deps, error) {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	users, payments, err := buildRepositories(cfg)
	if err != nil {
		return Deps{}, err
	}

	var index application.UserSearchIndex
	if es := container.GetES(); cfg.SearchEnabled && es != nil {
		index = search.NewUserIndex(es, cfg.ESUsersIndex)
	}
	var events application.PaymentEventPublisher
	if pub := container.GetRabbitPub(); cfg.EventsEnabled && pub != nil {
		events = messaging.NewPaymentEventPublisher(pub, container.GetMetrics())
	}
	var idem application.IdempotencyStore
	if rdb := container.GetRedis(); cfg.IdempotencyEnabled && rdb != nil {
		idem = cache.NewIdempotencyStore(rdb, cfg.IdempotencyTTL)
	}

	userDomain := service.NewUserDomainService(users, helpers.NewPasswordHasher(cfg.BcryptCost))
	userPort := buildUserPort(cfg, users)

	return Deps{
		Users:      users,
		Payments:   payments,
		UserPort:   userPort,
		UserSvc:    application.NewUserService(users, userDomain, index, logger),
		PaymentSvc: application.NewPaymentService(payments, userPort, service.NewPaymentDomainService(), events, idem, logger),
	}, nil
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) (Deps, error) {
	deps, err := buildDeps()
	if err != nil {
		return Deps{}, err
	}
	logger := container.GetLogger()

	r.Add(modules.NewUserModule(handlers.NewUserHandler(deps.UserSvc, logger), container.GetServiceTokens()))
	r.Add(modules.NewPaymentModule(handlers.NewPaymentHandler(deps.PaymentSvc, logger)))

	var gatherer = container.GetGatherer()
	if !container.GetConfig().DebugMetricsEnabled {
		gatherer = nil
	}
	r.AddRoot(modules.NewDebugModule(gatherer))
	return deps, nil
}
