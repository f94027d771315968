// Package external holds the adapters behind port.ExternalUserPort.
package external

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/port"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// LocalUserAdapter reads users straight from the in-process repository.
type LocalUserAdapter struct {
	repo   repository.UserRepository
	logger *logrus.Logger
	fanOut int
}

var _ port.ExternalUserPort = (*LocalUserAdapter)(nil)

func NewLocalUserAdapter(repo repository.UserRepository, logger *logrus.Logger) *LocalUserAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LocalUserAdapter{repo: repo, logger: logger, fanOut: DefaultFanOut}
}

func (a *LocalUserAdapter) FindByID(ctx context.Context, id string) result.Result[entity.ExternalUserData] {
	u, err := a.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return result.Fail[entity.ExternalUserData](errs.NotFound("User", id))
		}
		a.logger.WithError(err).WithField("user_id", id).Warn("local user lookup failed")
		return result.Fail[entity.ExternalUserData](errs.LookupFailed("user lookup failed", err))
	}
	return result.Ok(u.External())
}

func (a *LocalUserAdapter) Exists(ctx context.Context, id string) bool {
	return a.FindByID(ctx, id).IsOk()
}

func (a *LocalUserAdapter) FindByIDs(ctx context.Context, ids []string) map[string]entity.ExternalUserData {
	return fanOut(ctx, ids, a.fanOut, a.FindByID)
}
