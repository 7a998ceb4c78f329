package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/apperr"
)

// Trade is a one-for-one exchange between a proposer and a receiver.
type Trade struct {
	ID                int64     `json:"id"`
	ProposerID        uuid.UUID `json:"proposer_id"`
	ReceiverID        uuid.UUID `json:"receiver_id"`
	ProposerItemID    int64     `json:"proposer_item_id"`
	ReceiverItemID    int64     `json:"receiver_item_id"`
	Status            string    `json:"status"`
	ProposerTracking  *string   `json:"proposer_tracking,omitempty"`
	ReceiverTracking  *string   `json:"receiver_tracking,omitempty"`
	ProposerConfirmed bool      `json:"proposer_confirmed"`
	ReceiverConfirmed bool      `json:"receiver_confirmed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ProposerNickname string `json:"proposer_nickname,omitempty"`
	ReceiverNickname string `json:"receiver_nickname,omitempty"`
	ProposerItem     *Item  `json:"proposer_item,omitempty"`
	ReceiverItem     *Item  `json:"receiver_item,omitempty"`
}

// Trade statuses.
const (
	TradeStatusPending   = "PENDING"
	TradeStatusAccepted  = "ACCEPTED"
	TradeStatusShipping  = "SHIPPING"
	TradeStatusFinished  = "FINISHED"
	TradeStatusCancelled = "CANCELLED"
)

// MaxTrackingLen is the maximum length of a tracking code.
const MaxTrackingLen = 50

// Side identifies one of the two trade participants.
type Side int

const (
	SideProposer Side = iota + 1
	SideReceiver
)

func (s Side) String() string {
	switch s {
	case SideProposer:
		return "proposer"
	case SideReceiver:
		return "receiver"
	default:
		return "unknown"
	}
}

// Effect is an item transition a trade transition requires. The caller
// applies it through the item store in the same transaction.
type Effect struct {
	ItemID     int64
	Transition ItemTransition
}

// NewTrade returns a pending trade that is not yet persisted.
func NewTrade(proposerID, receiverID uuid.UUID, proposerItemID, receiverItemID int64) Trade {
	return Trade{
		ProposerID:     proposerID,
		ReceiverID:     receiverID,
		ProposerItemID: proposerItemID,
		ReceiverItemID: receiverItemID,
		Status:         TradeStatusPending,
	}
}

// IsTerminal reports whether no further transition is possible.
func (t Trade) IsTerminal() bool {
	return t.Status == TradeStatusFinished || t.Status == TradeStatusCancelled
}

// Accept moves a pending trade to accepted and locks both items.
func (t Trade) Accept() (Trade, []Effect, error) {
	if err := t.expect(TradeStatusAccepted, TradeStatusPending); err != nil {
		return t, nil, err
	}
	t.Status = TradeStatusAccepted
	return t, t.bothItems(TransitionStartTrading), nil
}

// Reject cancels a pending trade. Items were never locked.
func (t Trade) Reject() (Trade, []Effect, error) {
	if err := t.expect(TradeStatusCancelled, TradeStatusPending); err != nil {
		return t, nil, err
	}
	t.Status = TradeStatusCancelled
	return t, nil, nil
}

// RegisterProposerTracking stores the proposer's shipment code.
func (t Trade) RegisterProposerTracking(code string) (Trade, []Effect, error) {
	return t.RegisterTracking(SideProposer, code)
}

// RegisterReceiverTracking stores the receiver's shipment code.
func (t Trade) RegisterReceiverTracking(code string) (Trade, []Effect, error) {
	return t.RegisterTracking(SideReceiver, code)
}

// RegisterTracking stores a shipment code for side. The first code
// registered on an accepted trade moves it to shipping; later codes
// overwrite without changing status.
func (t Trade) RegisterTracking(side Side, code string) (Trade, []Effect, error) {
	if err := t.expect(TradeStatusShipping, TradeStatusAccepted, TradeStatusShipping); err != nil {
		return t, nil, err
	}
	switch side {
	case SideProposer:
		t.ProposerTracking = &code
	case SideReceiver:
		t.ReceiverTracking = &code
	default:
		return t, nil, apperr.InvalidState("unknown trade side")
	}
	if t.Status == TradeStatusAccepted {
		t.Status = TradeStatusShipping
	}
	return t, nil, nil
}

// ConfirmByProposer records that the proposer received the receiver's item.
func (t Trade) ConfirmByProposer() (Trade, []Effect, error) {
	return t.Confirm(SideProposer)
}

// ConfirmByReceiver records that the receiver received the proposer's item.
func (t Trade) ConfirmByReceiver() (Trade, []Effect, error) {
	return t.Confirm(SideReceiver)
}

// Confirm sets side's confirmation flag. Once both flags are set the trade
// finishes and both items complete.
func (t Trade) Confirm(side Side) (Trade, []Effect, error) {
	if err := t.expect(TradeStatusFinished, TradeStatusShipping); err != nil {
		return t, nil, err
	}
	switch side {
	case SideProposer:
		t.ProposerConfirmed = true
	case SideReceiver:
		t.ReceiverConfirmed = true
	default:
		return t, nil, apperr.InvalidState("unknown trade side")
	}
	return t.finishIfConfirmed()
}

// Cancel aborts a trade that has not reached a terminal state. Items locked
// by acceptance are released.
func (t Trade) Cancel() (Trade, []Effect, error) {
	if t.IsTerminal() {
		return t, nil, apperr.Transition(apperr.CodeInvalidTradeStatus, "trade", t.Status, TradeStatusCancelled)
	}
	var effects []Effect
	if t.Status == TradeStatusAccepted || t.Status == TradeStatusShipping {
		effects = t.bothItems(TransitionCancelTrading)
	}
	t.Status = TradeStatusCancelled
	return t, effects, nil
}

func (t Trade) finishIfConfirmed() (Trade, []Effect, error) {
	if !t.ProposerConfirmed || !t.ReceiverConfirmed {
		return t, nil, nil
	}
	t.Status = TradeStatusFinished
	return t, t.bothItems(TransitionCompleteTrading), nil
}

func (t Trade) bothItems(tr ItemTransition) []Effect {
	return []Effect{
		{ItemID: t.ProposerItemID, Transition: tr},
		{ItemID: t.ReceiverItemID, Transition: tr},
	}
}

// expect fails unless the current status is one of allowed.
func (t Trade) expect(attempted string, allowed ...string) error {
	for _, s := range allowed {
		if t.Status == s {
			return nil
		}
	}
	return apperr.Transition(apperr.CodeInvalidTradeStatus, "trade", t.Status, attempted)
}
