package service

import (
	"context"
	"fmt"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/repository"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/helpers"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

type UserDomainService struct {
	repo   repository.UserRepository
	hasher helpers.PasswordHasher
}

func NewUserDomainService(repo repository.UserRepository, hasher helpers.PasswordHasher) *UserDomainService {
	return &UserDomainService{repo: repo, hasher: hasher}
}

// IsEmailUnique compares on the normalized address and ignores excludeID.
func (s *UserDomainService) IsEmailUnique(ctx context.Context, email, excludeID string) result.Result[bool] {
	norm, _ := entity.NormalizeEmail(email)
	taken, err := s.repo.ExistsByEmail(ctx, norm, excludeID)
	if err != nil {
		return result.Fail[bool](fmt.Errorf("check email uniqueness: %w", err))
	}
	return result.Ok(!taken)
}

// ValidateUserCreation fails with a conflict when the email is already registered.
func (s *UserDomainService) ValidateUserCreation(ctx context.Context, email string) result.Void {
	return s.ensureEmailFree(ctx, email, "")
}

// ValidateEmailChange is ValidateUserCreation for an existing user.
func (s *UserDomainService) ValidateEmailChange(ctx context.Context, email, userID string) result.Void {
	return s.ensureEmailFree(ctx, email, userID)
}

func (s *UserDomainService) ensureEmailFree(ctx context.Context, email, excludeID string) result.Void {
	return result.FlatMap(s.IsEmailUnique(ctx, email, excludeID), func(unique bool) result.Void {
		if !unique {
			return result.Fail[struct{}](errs.Conflict(errs.ReasonEmailAlreadyExists, "email already exists"))
		}
		return result.Done()
	})
}

func (s *UserDomainService) HashPassword(plain string) result.Result[string] {
	hashed, err := s.hasher.Hash(plain)
	if err != nil {
		return result.Fail[string](fmt.Errorf("hash password: %w", err))
	}
	return result.Ok(hashed)
}

func (s *UserDomainService) VerifyPassword(hashed, plain string) bool {
	return s.hasher.Compare(hashed, plain)
}
