package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	repo "github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/service"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// UserSearchIndex keeps a searchable copy of users. Writes to it are best effort.
type UserSearchIndex interface {
	Index(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.ExternalUserData, error)
}

type UserService struct {
	Repo   repo.UserRepository
	Domain *service.UserDomainService
	Search UserSearchIndex
	Logger *logrus.Logger
}

// NewUserService wires the user use cases. search may be nil.
func NewUserService(r repo.UserRepository, domain *service.UserDomainService, search UserSearchIndex, logger *logrus.Logger) *UserService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &UserService{Repo: r, Domain: domain, Search: search, Logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) result.Result[UserOutput] {
	if res := s.Domain.ValidateUserCreation(ctx, in.Email); res.IsFail() {
		return result.Fail[UserOutput](res.Err())
	}

	created := entity.NewUser(in.Email, in.Name, in.Password)
	if created.IsFail() {
		return result.Fail[UserOutput](created.Err())
	}
	u := created.Value()

	hashed := s.Domain.HashPassword(in.Password)
	if hashed.IsFail() {
		return result.Fail[UserOutput](hashed.Err())
	}
	u.UpdatePassword(hashed.Value())

	if err := s.Repo.Save(ctx, u); err != nil {
		return result.Fail[UserOutput](fmt.Errorf("save user: %w", err))
	}
	s.Logger.WithField("user_id", u.ID).Info("user created")

	s.indexUser(ctx, u)
	return result.Ok(toUserOutput(u))
}

func (s *UserService) GetUserByID(ctx context.Context, id string) result.Result[UserOutput] {
	return result.Map(s.load(ctx, id), toUserOutput)
}

// GetUsers pages through users. Limit falls back to DefaultListLimit and is capped at MaxListLimit.
func (s *UserService) GetUsers(ctx context.Context, in ListUsersInput) result.Result[UserListOutput] {
	limit, offset := in.Limit, in.Offset
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.Repo.FindAll(ctx, limit, offset)
	if err != nil {
		return result.Fail[UserListOutput](fmt.Errorf("list users: %w", err))
	}
	out := UserListOutput{Users: make([]UserOutput, 0, len(users)), Limit: limit, Offset: offset}
	for _, u := range users {
		out.Users = append(out.Users, toUserOutput(u))
	}
	return result.Ok(out)
}

// UpdateUser applies only the supplied fields. Email uniqueness is checked only when the normalized address changes.
func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) result.Result[UserOutput] {
	loaded := s.load(ctx, id)
	if loaded.IsFail() {
		return result.Fail[UserOutput](loaded.Err())
	}
	u := loaded.Value()

	if in.Email != nil {
		if norm, _ := entity.NormalizeEmail(*in.Email); norm != u.Email {
			if res := s.Domain.ValidateEmailChange(ctx, norm, u.ID); res.IsFail() {
				return result.Fail[UserOutput](res.Err())
			}
			if res := u.UpdateEmail(*in.Email); res.IsFail() {
				return result.Fail[UserOutput](res.Err())
			}
		}
	}
	if in.Name != nil {
		if res := u.UpdateName(*in.Name); res.IsFail() {
			return result.Fail[UserOutput](res.Err())
		}
	}
	if in.Password != nil {
		if len(*in.Password) < entity.MinPasswordLength {
			return result.Fail[UserOutput](errs.Validation(errs.ReasonInvalidUser, "password must be at least 8 characters"))
		}
		hashed := s.Domain.HashPassword(*in.Password)
		if hashed.IsFail() {
			return result.Fail[UserOutput](hashed.Err())
		}
		u.UpdatePassword(hashed.Value())
	}

	if err := s.Repo.Save(ctx, u); err != nil {
		return result.Fail[UserOutput](fmt.Errorf("save user: %w", err))
	}
	s.Logger.WithField("user_id", u.ID).Info("user updated")

	s.indexUser(ctx, u)
	return result.Ok(toUserOutput(u))
}

func (s *UserService) DeleteUser(ctx context.Context, id string) result.Void {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return result.Fail[struct{}](errs.NotFound("User", id))
		}
		return result.Fail[struct{}](fmt.Errorf("delete user: %w", err))
	}
	s.Logger.WithField("user_id", id).Info("user deleted")

	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search index remove failed")
		}
	}
	return result.Done()
}

// GetUsersByIDs returns projections for the ids that exist, in request order.
func (s *UserService) GetUsersByIDs(ctx context.Context, ids []string) result.Result[[]entity.ExternalUserData] {
	users, err := s.Repo.FindByIDs(ctx, ids)
	if err != nil {
		return result.Fail[[]entity.ExternalUserData](fmt.Errorf("find users by ids: %w", err))
	}
	out := make([]entity.ExternalUserData, 0, len(users))
	for _, u := range users {
		out = append(out, u.External())
	}
	return result.Ok(out)
}

// SearchUsers matches q against email and name. Without a search index it returns nothing.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) result.Result[[]entity.ExternalUserData] {
	if s.Search == nil {
		return result.Ok([]entity.ExternalUserData{})
	}
	if size <= 0 || size > 50 {
		size = DefaultListLimit
	}
	hits, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return result.Fail[[]entity.ExternalUserData](fmt.Errorf("search users: %w", err))
	}
	return result.Ok(hits)
}

func (s *UserService) load(ctx context.Context, id string) result.Result[*entity.User] {
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return result.Fail[*entity.User](errs.NotFound("User", id))
		}
		return result.Fail[*entity.User](fmt.Errorf("find user: %w", err))
	}
	return result.Ok(u)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index failed")
	}
}
