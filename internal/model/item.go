package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/apperr"
)

// Item is a collectible a user either owns (HAVE) or wants (WISH).
type Item struct {
	ID         int64      `json:"id"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	SeriesName string     `json:"series_name"`
	ItemName   string     `json:"item_name"`
	ImageURL   string     `json:"image_url,omitempty"`
	Status     string     `json:"status"`
	Type       string     `json:"type"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`

	// Joined fields (not always populated).
	OwnerNickname string `json:"owner_nickname,omitempty"`
}

// Item statuses.
const (
	ItemStatusAvailable = "AVAILABLE"
	ItemStatusTrading   = "TRADING"
	ItemStatusCompleted = "COMPLETED"
)

// Item types.
const (
	ItemTypeHave = "HAVE"
	ItemTypeWish = "WISH"
)

// Maximum lengths for item text fields.
const (
	MaxSeriesNameLen = 100
	MaxItemNameLen   = 100
)

// ItemTransition names a status change an item can undergo while part of a trade.
type ItemTransition string

const (
	TransitionStartTrading    ItemTransition = "start_trading"
	TransitionCancelTrading   ItemTransition = "cancel_trading"
	TransitionCompleteTrading ItemTransition = "complete_trading"
)

// ValidItemType reports whether t is HAVE or WISH.
func ValidItemType(t string) bool {
	return t == ItemTypeHave || t == ItemTypeWish
}

// NewItem returns an AVAILABLE item that is not yet persisted.
func NewItem(ownerID uuid.UUID, itemType, seriesName, itemName, imageURL string) Item {
	return Item{
		OwnerID:    ownerID,
		SeriesName: seriesName,
		ItemName:   itemName,
		ImageURL:   imageURL,
		Status:     ItemStatusAvailable,
		Type:       itemType,
	}
}

// IsAvailable reports whether the item can be offered, edited or deleted.
func (i Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}

// StartTrading locks an available item into a trade.
func (i Item) StartTrading() (Item, error) {
	return i.move(ItemStatusAvailable, ItemStatusTrading)
}

// CancelTrading returns a trading item to the available pool.
func (i Item) CancelTrading() (Item, error) {
	return i.move(ItemStatusTrading, ItemStatusAvailable)
}

// CompleteTrading marks a trading item as exchanged.
func (i Item) CompleteTrading() (Item, error) {
	return i.move(ItemStatusTrading, ItemStatusCompleted)
}

// Apply performs the named transition.
func (i Item) Apply(t ItemTransition) (Item, error) {
	switch t {
	case TransitionStartTrading:
		return i.StartTrading()
	case TransitionCancelTrading:
		return i.CancelTrading()
	case TransitionCompleteTrading:
		return i.CompleteTrading()
	default:
		return i, apperr.InvalidState("unknown item transition: " + string(t))
	}
}

// UpdateInfo overwrites the descriptive fields. Only available items can be edited.
func (i Item) UpdateInfo(seriesName, itemName, imageURL string) (Item, error) {
	if !i.IsAvailable() {
		return i, apperr.InvalidState("cannot update item that is not available")
	}
	i.SeriesName = seriesName
	i.ItemName = itemName
	i.ImageURL = imageURL
	return i, nil
}

func (i Item) move(from, to string) (Item, error) {
	if i.Status != from {
		return i, apperr.Transition(apperr.CodeInvalidState, "item", i.Status, to)
	}
	i.Status = to
	return i, nil
}
