// Package port holds interfaces the core owns and outer layers implement.
package port

import (
	"context"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// ExternalUserPort is how the payment side reads user data.
// Implementations must be interchangeable: an in-process repository read or a call to a remote user service.
type ExternalUserPort interface {
	// FindByID fails with errs.ErrUserNotFound when the user does not exist
	// and with errs.ErrLookupFailed when the lookup itself could not complete.
	FindByID(ctx context.Context, id string) result.Result[entity.ExternalUserData]
	// Exists reports false on any error.
	Exists(ctx context.Context, id string) bool
	// FindByIDs is best effort. Ids that fail lookup are left out of the map, and only requested ids appear in it.
	// Per-id fallbacks run at most external.DefaultFanOut lookups at once, so their latency grows with len(ids)/8.
	FindByIDs(ctx context.Context, ids []string) map[string]entity.ExternalUserData
}
