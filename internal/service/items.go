package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/access"
	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/imaging"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/store"
)

// CreateItemCommand registers a HAVE or WISH item.
type CreateItemCommand struct {
	OwnerID    uuid.UUID
	SeriesName string
	ItemName   string
	ImageURL   string
	Type       string
}

// UpdateItemCommand edits an item. Nil fields keep their value.
type UpdateItemCommand struct {
	ItemID      int64
	RequesterID uuid.UUID
	SeriesName  *string
	ItemName    *string
	ImageURL    *string
}

// CreateItem adds an item to the owner's inventory.
func (s *Service) CreateItem(ctx context.Context, cmd CreateItemCommand) (item *model.Item, err error) {
	ctx, span := startSpan(ctx, "CreateItem")
	defer func() { endSpan(span, err) }()

	if !model.ValidItemType(cmd.Type) {
		return nil, apperr.InvalidInput("type must be HAVE or WISH", map[string]string{"type": "invalid"})
	}
	if err := validateItemText(cmd.SeriesName, cmd.ItemName); err != nil {
		return nil, err
	}

	err = s.tx(ctx, func(tx *sql.Tx) error {
		if _, err := requireUser(ctx, tx, cmd.OwnerID); err != nil {
			return err
		}
		item, err = store.CreateItem(ctx, tx, model.NewItem(cmd.OwnerID, cmd.Type, cmd.SeriesName, cmd.ItemName, cmd.ImageURL))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMatches(ctx)
	return item, nil
}

// GetItem returns a non-deleted item.
func (s *Service) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return requireItem(ctx, s.DB, id)
}

// ListItemsByOwner returns a user's items.
func (s *Service) ListItemsByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Item, error) {
	if _, err := requireUser(ctx, s.DB, ownerID); err != nil {
		return nil, err
	}
	items, err := store.ListItemsByOwner(ctx, s.DB, ownerID)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// SearchBySeries returns every item of a series, in any status.
func (s *Service) SearchBySeries(ctx context.Context, seriesName string) ([]model.Item, error) {
	items, err := store.ListItemsBySeries(ctx, s.DB, seriesName)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// UpdateItem edits an available item owned by the requester.
func (s *Service) UpdateItem(ctx context.Context, cmd UpdateItemCommand) (item *model.Item, err error) {
	ctx, span := startSpan(ctx, "UpdateItem")
	defer func() { endSpan(span, err) }()

	err = s.tx(ctx, func(tx *sql.Tx) error {
		current, err := requireItem(ctx, tx, cmd.ItemID)
		if err != nil {
			return err
		}
		if err := access.CheckItem(*current, cmd.RequesterID, access.OpEditItem); err != nil {
			return err
		}

		updated, err := current.UpdateInfo(
			valueOr(cmd.SeriesName, current.SeriesName),
			valueOr(cmd.ItemName, current.ItemName),
			valueOr(cmd.ImageURL, current.ImageURL),
		)
		if err != nil {
			return err
		}
		if err := validateItemText(updated.SeriesName, updated.ItemName); err != nil {
			return err
		}

		if err := saveItemInfo(ctx, tx, updated); err != nil {
			return err
		}
		item, err = store.GetItem(ctx, tx, cmd.ItemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMatches(ctx)
	return item, nil
}

// DeleteItem soft-deletes an available item owned by the requester.
func (s *Service) DeleteItem(ctx context.Context, itemID int64, requesterID uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "DeleteItem")
	defer func() { endSpan(span, err) }()

	err = s.tx(ctx, func(tx *sql.Tx) error {
		item, err := requireItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if err := access.CheckItem(*item, requesterID, access.OpDeleteItem); err != nil {
			return err
		}
		if !item.IsAvailable() {
			return apperr.InvalidState("cannot delete item that is not available")
		}

		ok, err := store.DeleteItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.InvalidState("cannot delete item that is not available")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateMatches(ctx)
	return nil
}

// SetItemImage stores a normalised photo for an item and points its image
// URL at it.
func (s *Service) SetItemImage(ctx context.Context, itemID int64, requesterID uuid.UUID, r io.Reader) (item *model.Item, err error) {
	ctx, span := startSpan(ctx, "SetItemImage")
	defer func() { endSpan(span, err) }()

	photo, err := imaging.Normalize(r)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupported) || errors.Is(err, imaging.ErrTooLarge) {
			return nil, apperr.InvalidInput(err.Error(), map[string]string{"image": err.Error()})
		}
		return nil, apperr.Wrap(apperr.CodeInvalidInput, "invalid image", err)
	}

	err = s.tx(ctx, func(tx *sql.Tx) error {
		current, err := requireItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if err := access.CheckItem(*current, requesterID, access.OpEditItem); err != nil {
			return err
		}

		updated, err := current.UpdateInfo(current.SeriesName, current.ItemName, ImageURL(itemID))
		if err != nil {
			return err
		}
		if err := store.SetItemImage(ctx, tx, itemID, photo.Data, photo.MIME); err != nil {
			return err
		}
		if err := saveItemInfo(ctx, tx, updated); err != nil {
			return err
		}
		item, err = store.GetItem(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMatches(ctx)
	return item, nil
}

// GetItemImage returns an item's stored photo and its MIME type.
func (s *Service) GetItemImage(ctx context.Context, itemID int64) ([]byte, string, error) {
	if _, err := requireItem(ctx, s.DB, itemID); err != nil {
		return nil, "", err
	}
	data, mime, err := store.GetItemImage(ctx, s.DB, itemID)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", apperr.NotFound("image", itemID)
	}
	return data, mime, nil
}

// ImageURL is the API path serving an item's stored photo.
func ImageURL(itemID int64) string {
	return fmt.Sprintf("/api/items/%d/image", itemID)
}

func requireItem(ctx context.Context, q store.Querier, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if item == nil || item.DeletedAt != nil {
		return nil, apperr.NotFound("item", id)
	}
	return item, nil
}

func saveItemInfo(ctx context.Context, q store.Querier, item model.Item) error {
	ok, err := store.UpdateItemInfo(ctx, q, item.ID, item.SeriesName, item.ItemName, item.ImageURL)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidState("cannot update item that is not available")
	}
	return nil
}

func validateItemText(seriesName, itemName string) error {
	details := map[string]string{}
	if strings.TrimSpace(seriesName) == "" || len(seriesName) > model.MaxSeriesNameLen {
		details["series_name"] = fmt.Sprintf("must be 1-%d characters", model.MaxSeriesNameLen)
	}
	if strings.TrimSpace(itemName) == "" || len(itemName) > model.MaxItemNameLen {
		details["item_name"] = fmt.Sprintf("must be 1-%d characters", model.MaxItemNameLen)
	}
	if len(details) > 0 {
		return apperr.InvalidInput("invalid item", details)
	}
	return nil
}

func valueOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
