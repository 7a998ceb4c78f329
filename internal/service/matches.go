package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/matching"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/store"
)

// FindMatches returns the swaps available to a user, served from the match
// cache when possible.
func (s *Service) FindMatches(ctx context.Context, userID uuid.UUID) (results []model.MatchResult, err error) {
	ctx, span := startSpan(ctx, "FindMatches")
	defer func() { endSpan(span, err) }()

	entry, lookupErr := s.Matches.Lookup(ctx, userID)
	if lookupErr != nil {
		slog.Warn("reading match cache", "user", userID, "error", lookupErr)
	} else if entry.Hit {
		return entry.Results, nil
	}

	results, err = matching.FindMatches(ctx, userFinder{s.DB}, itemFinder{s.DB}, userID)
	if err != nil {
		return nil, err
	}

	if lookupErr == nil {
		if err := s.Matches.Store(ctx, userID, entry.Generation, results); err != nil {
			slog.Warn("writing match cache", "user", userID, "error", err)
		}
	}
	return results, nil
}

type userFinder struct{ q store.Querier }

func (f userFinder) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return store.GetUser(ctx, f.q, id)
}

type itemFinder struct{ q store.Querier }

func (f itemFinder) ListByOwnerAndType(ctx context.Context, ownerID uuid.UUID, itemType string) ([]model.Item, error) {
	return store.ListItemsByOwnerAndType(ctx, f.q, ownerID, itemType)
}

func (f itemFinder) ListAvailableByTypeSeriesName(ctx context.Context, itemType, seriesName, itemName string) ([]model.Item, error) {
	return store.ListAvailableItems(ctx, f.q, itemType, seriesName, itemName)
}
