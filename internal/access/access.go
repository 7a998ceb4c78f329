// Package access decides who may act on items and trades.
package access

import (
	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
)

// Op is an operation subject to an ownership or participation check.
type Op string

const (
	OpEditItem         Op = "edit_item"
	OpDeleteItem       Op = "delete_item"
	OpOfferItem        Op = "offer_item"
	OpRespond          Op = "respond"
	OpRegisterTracking Op = "register_tracking"
	OpConfirm          Op = "confirm"
	OpCancel           Op = "cancel"
	OpView             Op = "view"
)

// CheckItem returns a Forbidden error unless requester may perform op on item.
func CheckItem(item model.Item, requester uuid.UUID, op Op) error {
	switch op {
	case OpEditItem, OpDeleteItem, OpOfferItem:
		if item.OwnerID != requester {
			return apperr.Forbidden(itemMessage(op))
		}
		return nil
	default:
		return apperr.Forbidden("operation not allowed on item")
	}
}

// CheckTrade returns a Forbidden error unless requester may perform op on trade.
func CheckTrade(trade model.Trade, requester uuid.UUID, op Op) error {
	switch op {
	case OpRespond:
		if trade.ReceiverID != requester {
			return apperr.Forbidden("only the receiver can respond to a trade")
		}
		return nil
	case OpRegisterTracking, OpConfirm, OpCancel, OpView:
		if !IsParticipant(trade, requester) {
			return apperr.Forbidden("not a participant of this trade")
		}
		return nil
	default:
		return apperr.Forbidden("operation not allowed on trade")
	}
}

// IsParticipant reports whether id is the proposer or the receiver.
func IsParticipant(trade model.Trade, id uuid.UUID) bool {
	return trade.ProposerID == id || trade.ReceiverID == id
}

// SideOf returns the side requester plays in trade. Non-participants get
// a Forbidden error.
func SideOf(trade model.Trade, requester uuid.UUID) (model.Side, error) {
	switch requester {
	case trade.ProposerID:
		return model.SideProposer, nil
	case trade.ReceiverID:
		return model.SideReceiver, nil
	default:
		return 0, apperr.Forbidden("not a participant of this trade")
	}
}

func itemMessage(op Op) string {
	switch op {
	case OpEditItem:
		return "only the owner can edit this item"
	case OpDeleteItem:
		return "only the owner can delete this item"
	default:
		return "you do not own this item"
	}
}
