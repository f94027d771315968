package external

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/go-ddd-ports-adapters/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ports-adapters/pkg/result"
)

// DefaultFanOut bounds how many lookups FindByIDs runs at once.
const DefaultFanOut = 8

type lookupFunc func(ctx context.Context, id string) result.Result[entity.ExternalUserData]

// fanOut runs lookup for every distinct id and keeps the successes.
// Lookups never return an error to the group, so one failure does not cancel the others.
func fanOut(ctx context.Context, ids []string, limit int, lookup lookupFunc) map[string]entity.ExternalUserData {
	out := make(map[string]entity.ExternalUserData, len(ids))
	if len(ids) == 0 {
		return out
	}
	if limit <= 0 {
		limit = DefaultFanOut
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(limit)
	for _, id := range uniqueIDs(ids) {
		g.Go(func() error {
			res := lookup(ctx, id)
			if res.IsOk() {
				mu.Lock()
				out[id] = res.Value()
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
