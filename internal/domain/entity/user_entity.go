package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/errs"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is the aggregate root for user domain
// Password holds a bcrypt hash once the user has been persisted.
// Repositories rebuild users with a struct literal, skipping validation.
type User struct {
	ID        string
	Email     string
	Name      string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// NewUser validates the raw input and builds a user with a fresh id.
// The password is still plaintext here; the caller hashes it with UpdatePassword before saving.
func NewUser(email, name, password string) result.Result[*User] {
	normEmail, err := normalizeEmail(email)
	if err != nil {
		return result.Fail[*User](err)
	}
	normName, err := normalizeName(name)
	if err != nil {
		return result.Fail[*User](err)
	}
	if len(password) < MinPasswordLength {
		return result.Fail[*User](errs.Validation(errs.ReasonInvalidUser, "password must be at least 8 characters"))
	}

	now := time.Now().UTC()
	return result.Ok(&User{
		ID:        uuid.NewString(),
		Email:     normEmail,
		Name:      normName,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (u *User) UpdateEmail(email string) result.Void {
	norm, err := normalizeEmail(email)
	if err != nil {
		return result.Fail[struct{}](err)
	}
	u.Email = norm
	u.touch()
	return result.Done()
}

func (u *User) UpdateName(name string) result.Void {
	norm, err := normalizeName(name)
	if err != nil {
		return result.Fail[struct{}](err)
	}
	u.Name = norm
	u.touch()
	return result.Done()
}

// UpdatePassword stores an already hashed password.
func (u *User) UpdatePassword(hashed string) {
	u.Password = hashed
	u.touch()
}

// External narrows the aggregate to the projection other modules may see.
func (u *User) External() ExternalUserData {
	return ExternalUserData{ID: u.ID, Email: u.Email, Name: u.Name}
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
	u.Version++
}

// NormalizeEmail trims and lower-cases an address, reporting whether it has a valid shape.
func NormalizeEmail(email string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(email))
	return norm, emailPattern.MatchString(norm)
}

func normalizeEmail(email string) (string, error) {
	norm, ok := NormalizeEmail(email)
	if !ok {
		return "", errs.Validation(errs.ReasonInvalidUser, "invalid email format")
	}
	return norm, nil
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if len([]rune(trimmed)) < MinNameLength {
		return "", errs.Validation(errs.ReasonInvalidUser, "name must be at least 2 characters")
	}
	return trimmed, nil
}
