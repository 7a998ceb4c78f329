package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/model"
)

const itemColumns = `i.id, i.owner_id, i.series_name, i.item_name, i.image_url, i.status, i.type,
	i.created_at, i.updated_at, i.deleted_at, u.nickname`

const itemFrom = ` FROM items i JOIN users u ON u.id = i.owner_id`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var imageURL sql.NullString
	err := row.Scan(&item.ID, &item.OwnerID, &item.SeriesName, &item.ItemName, &imageURL, &item.Status, &item.Type,
		&item.CreatedAt, &item.UpdatedAt, &item.DeletedAt, &item.OwnerNickname)
	if err != nil {
		return nil, err
	}
	item.ImageURL = imageURL.String
	return item, nil
}

func queryItems(ctx context.Context, q Querier, query string, args ...any) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+itemColumns+itemFrom+` `+query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// CreateItem inserts a new item.
func CreateItem(ctx context.Context, q Querier, item model.Item) (*model.Item, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO items (owner_id, series_name, item_name, image_url, status, type) VALUES (?, ?, ?, ?, ?, ?)`,
		item.OwnerID, item.SeriesName, item.ItemName, nullString(item.ImageURL), item.Status, item.Type,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, q, id)
}

// GetItem returns an item by ID, including soft-deleted items.
func GetItem(ctx context.Context, q Querier, id int64) (*model.Item, error) {
	item, err := scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItemsByOwner returns an owner's non-deleted items.
func ListItemsByOwner(ctx context.Context, q Querier, ownerID uuid.UUID) ([]model.Item, error) {
	return queryItems(ctx, q,
		`WHERE i.owner_id = ? AND i.deleted_at IS NULL ORDER BY i.id`, ownerID)
}

// ListItemsByOwnerAndType returns an owner's non-deleted items of one type.
func ListItemsByOwnerAndType(ctx context.Context, q Querier, ownerID uuid.UUID, itemType string) ([]model.Item, error) {
	return queryItems(ctx, q,
		`WHERE i.owner_id = ? AND i.type = ? AND i.deleted_at IS NULL ORDER BY i.id`, ownerID, itemType)
}

// ListAvailableItems returns available, non-deleted items of any owner with
// the given type, series and exact item name.
func ListAvailableItems(ctx context.Context, q Querier, itemType, seriesName, itemName string) ([]model.Item, error) {
	return queryItems(ctx, q,
		`WHERE i.type = ? AND i.series_name = ? AND i.item_name = ? AND i.status = ? AND i.deleted_at IS NULL
		 ORDER BY i.id`,
		itemType, seriesName, itemName, model.ItemStatusAvailable)
}

// ListItemsBySeries returns all non-deleted items of a series.
func ListItemsBySeries(ctx context.Context, q Querier, seriesName string) ([]model.Item, error) {
	return queryItems(ctx, q,
		`WHERE i.series_name = ? AND i.deleted_at IS NULL ORDER BY i.item_name, i.id`, seriesName)
}

// UpdateItemInfo overwrites an available item's descriptive fields. It
// reports false when the item is no longer available.
func UpdateItemInfo(ctx context.Context, q Querier, id int64, seriesName, itemName, imageURL string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET series_name = ?, item_name = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		seriesName, itemName, nullString(imageURL), id, model.ItemStatusAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	return affected(result)
}

// UpdateItemStatus moves an item from one status to another. It reports
// false when the item was not in the expected status.
func UpdateItemStatus(ctx context.Context, q Querier, id int64, from, to string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		to, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating item status: %w", err)
	}
	return affected(result)
}

// DeleteItem soft-deletes an available item. It reports false when the item
// is not available or already deleted.
func DeleteItem(ctx context.Context, q Querier, id int64) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE items SET deleted_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ? AND deleted_at IS NULL`,
		id, model.ItemStatusAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	return affected(result)
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, q Querier, id int64, image []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND deleted_at IS NULL`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, q Querier, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ? AND deleted_at IS NULL`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
