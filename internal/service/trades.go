package service

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/access"
	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
	"github.com/erazemk/gotchan/internal/store"
)

// RequestTradeCommand proposes swapping the proposer's item for another
// user's item.
type RequestTradeCommand struct {
	ProposerID     uuid.UUID
	ProposerItemID int64
	ReceiverItemID int64
}

// RespondTradeCommand accepts or rejects a pending trade.
type RespondTradeCommand struct {
	TradeID     int64
	ResponderID uuid.UUID
	Accept      bool
}

// RegisterTrackingCommand records the caller's shipment tracking code.
type RegisterTrackingCommand struct {
	TradeID      int64
	UserID       uuid.UUID
	TrackingCode string
}

// RequestTrade creates a pending trade.
func (s *Service) RequestTrade(ctx context.Context, cmd RequestTradeCommand) (trade *model.Trade, err error) {
	ctx, span := startSpan(ctx, "RequestTrade")
	defer func() { endSpan(span, err) }()

	err = s.tx(ctx, func(tx *sql.Tx) error {
		proposer, err := requireUser(ctx, tx, cmd.ProposerID)
		if err != nil {
			return err
		}

		offered, err := requireItem(ctx, tx, cmd.ProposerItemID)
		if err != nil {
			return err
		}
		if err := access.CheckItem(*offered, proposer.ID, access.OpOfferItem); err != nil {
			return err
		}

		wanted, err := requireItem(ctx, tx, cmd.ReceiverItemID)
		if err != nil {
			return err
		}
		if wanted.OwnerID == proposer.ID {
			return apperr.SelfTrade()
		}

		for _, item := range []*model.Item{offered, wanted} {
			if !item.IsAvailable() {
				e := apperr.New(apperr.CodeItemNotAvailable, "item is not available for trade")
				e.Metadata = map[string]string{"item_id": strconv.FormatInt(item.ID, 10), "status": item.Status}
				return e
			}
		}

		created, err := store.CreateTrade(ctx, tx, model.NewTrade(proposer.ID, wanted.OwnerID, offered.ID, wanted.ID))
		if err != nil {
			return err
		}
		trade, err = withItems(ctx, tx, created)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidateMatches(ctx)
	return trade, nil
}

// RespondTrade lets the receiver accept or reject a pending trade.
// Accepting locks both items.
func (s *Service) RespondTrade(ctx context.Context, cmd RespondTradeCommand) (*model.Trade, error) {
	name := "RejectTrade"
	if cmd.Accept {
		name = "AcceptTrade"
	}
	return s.transition(ctx, name, cmd.TradeID, cmd.ResponderID, access.OpRespond,
		func(t model.Trade, _ model.Side) (model.Trade, []model.Effect, error) {
			if cmd.Accept {
				return t.Accept()
			}
			return t.Reject()
		})
}

// RegisterTracking records a participant's tracking code.
func (s *Service) RegisterTracking(ctx context.Context, cmd RegisterTrackingCommand) (*model.Trade, error) {
	code := strings.TrimSpace(cmd.TrackingCode)
	if code == "" || len(code) > model.MaxTrackingLen {
		return nil, apperr.InvalidInput("invalid tracking code",
			map[string]string{"tracking_code": "must be 1-50 characters"})
	}
	return s.transition(ctx, "RegisterTracking", cmd.TradeID, cmd.UserID, access.OpRegisterTracking,
		func(t model.Trade, side model.Side) (model.Trade, []model.Effect, error) {
			return t.RegisterTracking(side, code)
		})
}

// ConfirmTrade records that the caller received the other item. The trade
// finishes once both participants confirmed.
func (s *Service) ConfirmTrade(ctx context.Context, tradeID int64, userID uuid.UUID) (*model.Trade, error) {
	return s.transition(ctx, "ConfirmTrade", tradeID, userID, access.OpConfirm,
		func(t model.Trade, side model.Side) (model.Trade, []model.Effect, error) {
			return t.Confirm(side)
		})
}

// CancelTrade aborts a trade that has not finished.
func (s *Service) CancelTrade(ctx context.Context, tradeID int64, userID uuid.UUID) (*model.Trade, error) {
	return s.transition(ctx, "CancelTrade", tradeID, userID, access.OpCancel,
		func(t model.Trade, _ model.Side) (model.Trade, []model.Effect, error) {
			return t.Cancel()
		})
}

// GetTrade returns a trade with both items.
func (s *Service) GetTrade(ctx context.Context, id int64) (*model.Trade, error) {
	t, err := store.GetTrade(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("trade", id)
	}
	return withItems(ctx, s.DB, t)
}

// ListTradesByUser returns the user's trades, newest first.
func (s *Service) ListTradesByUser(ctx context.Context, userID uuid.UUID) ([]model.Trade, error) {
	if _, err := requireUser(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	trades, err := store.ListTradesByParticipant(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		if _, err := withItems(ctx, s.DB, &trades[i]); err != nil {
			return nil, err
		}
	}
	return nonNil(trades), nil
}

type tradeStep func(t model.Trade, side model.Side) (model.Trade, []model.Effect, error)

// transition loads a trade, checks the requester may perform op, runs step
// and persists the trade together with the item changes it requires.
func (s *Service) transition(ctx context.Context, name string, tradeID int64, requester uuid.UUID, op access.Op, step tradeStep) (trade *model.Trade, err error) {
	ctx, span := startSpan(ctx, name)
	defer func() { endSpan(span, err) }()

	var effects []model.Effect
	err = s.tx(ctx, func(tx *sql.Tx) error {
		current, err := store.GetTrade(ctx, tx, tradeID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound("trade", tradeID)
		}
		if err := access.CheckTrade(*current, requester, op); err != nil {
			return err
		}
		side, err := access.SideOf(*current, requester)
		if err != nil {
			return err
		}

		next, fx, err := step(*current, side)
		if err != nil {
			return err
		}
		effects = fx

		if err := applyEffects(ctx, tx, effects); err != nil {
			return err
		}

		ok, err := store.UpdateTrade(ctx, tx, next, current.Status)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Transition(apperr.CodeInvalidTradeStatus, "trade", current.Status, next.Status)
		}

		if err := s.applyTrust(ctx, tx, *current, next, side); err != nil {
			return err
		}

		saved, err := store.GetTrade(ctx, tx, tradeID)
		if err != nil {
			return err
		}
		trade, err = withItems(ctx, tx, saved)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(effects) > 0 {
		s.invalidateMatches(ctx)
	}
	return trade, nil
}

// applyEffects moves each item through its transition, guarded on the
// status it was read with.
func applyEffects(ctx context.Context, q store.Querier, effects []model.Effect) error {
	for _, e := range effects {
		item, err := store.GetItem(ctx, q, e.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperr.NotFound("item", e.ItemID)
		}

		moved, err := item.Apply(e.Transition)
		if err != nil {
			return err
		}

		ok, err := store.UpdateItemStatus(ctx, q, item.ID, item.Status, moved.Status)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Transition(apperr.CodeInvalidState, "item", item.Status, moved.Status)
		}
	}
	return nil
}

// applyTrust rewards both participants of a finished trade and penalises
// whoever cancels a trade already in shipping.
func (s *Service) applyTrust(ctx context.Context, q store.Querier, before, after model.Trade, side model.Side) error {
	switch {
	case after.Status == model.TradeStatusFinished && before.Status != model.TradeStatusFinished:
		if s.Trust.FinishReward.IsZero() {
			return nil
		}
		for _, id := range []uuid.UUID{after.ProposerID, after.ReceiverID} {
			if err := adjustTrust(ctx, q, id, func(u model.User) model.User {
				return u.IncreaseTrustScore(s.Trust.FinishReward)
			}); err != nil {
				return err
			}
		}
	case after.Status == model.TradeStatusCancelled && before.Status == model.TradeStatusShipping:
		if s.Trust.CancelPenalty.IsZero() {
			return nil
		}
		canceller := after.ProposerID
		if side == model.SideReceiver {
			canceller = after.ReceiverID
		}
		return adjustTrust(ctx, q, canceller, func(u model.User) model.User {
			return u.DecreaseTrustScore(s.Trust.CancelPenalty)
		})
	}
	return nil
}

// withItems fills in the trade's joined items. Deleted items are included.
func withItems(ctx context.Context, q store.Querier, t *model.Trade) (*model.Trade, error) {
	proposerItem, err := store.GetItem(ctx, q, t.ProposerItemID)
	if err != nil {
		return nil, err
	}
	receiverItem, err := store.GetItem(ctx, q, t.ReceiverItemID)
	if err != nil {
		return nil, err
	}
	t.ProposerItem = proposerItem
	t.ReceiverItem = receiverItem
	return t, nil
}
