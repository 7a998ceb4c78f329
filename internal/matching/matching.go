// Package matching finds two-item swaps between users: the caller has
// something a partner wants, and the partner has something the caller
// wants, both within the same series.
package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
)

// ItemFinder looks up items for the matcher.
type ItemFinder interface {
	// ListByOwnerAndType returns the owner's non-deleted items of the given type.
	ListByOwnerAndType(ctx context.Context, ownerID uuid.UUID, itemType string) ([]model.Item, error)
	// ListAvailableByTypeSeriesName returns AVAILABLE, non-deleted items of
	// any owner with the exact series and item name.
	ListAvailableByTypeSeriesName(ctx context.Context, itemType, seriesName, itemName string) ([]model.Item, error)
}

// UserFinder looks up users. A missing user is returned as nil, nil.
type UserFinder interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type matchKey struct {
	partner     uuid.UUID
	myHave      int64
	partnerHave int64
}

// FindMatches returns every swap available to userID, in discovery order.
// Results describing the same physical exchange are collapsed.
func FindMatches(ctx context.Context, users UserFinder, items ItemFinder, userID uuid.UUID) ([]model.MatchResult, error) {
	user, err := users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user", userID)
	}

	haves, err := items.ListByOwnerAndType(ctx, userID, model.ItemTypeHave)
	if err != nil {
		return nil, fmt.Errorf("listing have items: %w", err)
	}
	wishes, err := items.ListByOwnerAndType(ctx, userID, model.ItemTypeWish)
	if err != nil {
		return nil, fmt.Errorf("listing wish items: %w", err)
	}

	results := []model.MatchResult{}
	if len(haves) == 0 || len(wishes) == 0 {
		return results, nil
	}

	seen := make(map[matchKey]bool)
	partners := make(map[uuid.UUID]*model.User)

	for _, h := range haves {
		partnerWishes, err := items.ListAvailableByTypeSeriesName(ctx, model.ItemTypeWish, h.SeriesName, h.ItemName)
		if err != nil {
			return nil, fmt.Errorf("listing wanted items: %w", err)
		}

		for _, pw := range partnerWishes {
			if pw.OwnerID == userID {
				continue
			}

			for _, w := range wishes {
				if w.SeriesName != h.SeriesName {
					continue
				}

				partnerHaves, err := items.ListAvailableByTypeSeriesName(ctx, model.ItemTypeHave, w.SeriesName, w.ItemName)
				if err != nil {
					return nil, fmt.Errorf("listing offered items: %w", err)
				}

				for _, ph := range partnerHaves {
					if ph.OwnerID != pw.OwnerID {
						continue
					}

					key := matchKey{partner: pw.OwnerID, myHave: h.ID, partnerHave: ph.ID}
					if seen[key] {
						continue
					}

					partner, err := lookupPartner(ctx, users, partners, pw.OwnerID)
					if err != nil {
						return nil, err
					}
					if partner == nil {
						continue
					}

					seen[key] = true
					results = append(results, model.MatchResult{
						PartnerID:         partner.ID,
						PartnerNickname:   partner.Nickname,
						PartnerTrustScore: partner.TrustScore,
						MyHaveItem:        h,
						PartnerWishItem:   pw,
						PartnerHaveItem:   ph,
						MyWishItem:        w,
					})
				}
			}
		}
	}

	return results, nil
}

func lookupPartner(ctx context.Context, users UserFinder, cache map[uuid.UUID]*model.User, id uuid.UUID) (*model.User, error) {
	if u, ok := cache[id]; ok {
		return u, nil
	}
	u, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting partner: %w", err)
	}
	cache[id] = u
	return u, nil
}
