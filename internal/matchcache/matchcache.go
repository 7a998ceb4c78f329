// Package matchcache caches match results per user.
//
// Any item or trade change can alter anyone's matches, so entries are keyed
// by a global generation. Invalidate bumps the generation; entries stored
// under an older generation are never returned again.
package matchcache

import (
	"context"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/model"
)

// Entry is the result of a lookup. Generation must be passed back to Store
// so that results computed before an invalidation are not cached under the
// new generation.
type Entry struct {
	Results    []model.MatchResult
	Hit        bool
	Generation int64
}

// Cache stores match results.
type Cache interface {
	Lookup(ctx context.Context, userID uuid.UUID) (Entry, error)
	Store(ctx context.Context, userID uuid.UUID, generation int64, results []model.MatchResult) error
	Invalidate(ctx context.Context) error
}

// Nop never caches.
type Nop struct{}

func (Nop) Lookup(context.Context, uuid.UUID) (Entry, error) { return Entry{}, nil }

func (Nop) Store(context.Context, uuid.UUID, int64, []model.MatchResult) error { return nil }

func (Nop) Invalidate(context.Context) error { return nil }
