package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/model"
)

const tradeColumns = `t.id, t.proposer_id, t.receiver_id, t.proposer_item_id, t.receiver_item_id, t.status,
	t.proposer_tracking, t.receiver_tracking, t.proposer_confirmed, t.receiver_confirmed,
	t.created_at, t.updated_at, p.nickname, r.nickname`

const tradeFrom = ` FROM trades t
	JOIN users p ON p.id = t.proposer_id
	JOIN users r ON r.id = t.receiver_id`

func scanTrade(row interface{ Scan(...any) error }) (*model.Trade, error) {
	t := &model.Trade{}
	err := row.Scan(&t.ID, &t.ProposerID, &t.ReceiverID, &t.ProposerItemID, &t.ReceiverItemID, &t.Status,
		&t.ProposerTracking, &t.ReceiverTracking, &t.ProposerConfirmed, &t.ReceiverConfirmed,
		&t.CreatedAt, &t.UpdatedAt, &t.ProposerNickname, &t.ReceiverNickname)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CreateTrade inserts a new trade.
func CreateTrade(ctx context.Context, q Querier, t model.Trade) (*model.Trade, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO trades (proposer_id, receiver_id, proposer_item_id, receiver_item_id, status)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ProposerID, t.ReceiverID, t.ProposerItemID, t.ReceiverItemID, t.Status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating trade: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting trade id: %w", err)
	}

	return GetTrade(ctx, q, id)
}

// GetTrade returns a trade by ID.
func GetTrade(ctx context.Context, q Querier, id int64) (*model.Trade, error) {
	t, err := scanTrade(q.QueryRowContext(ctx,
		`SELECT `+tradeColumns+tradeFrom+` WHERE t.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting trade: %w", err)
	}
	return t, nil
}

// ListTradesByParticipant returns trades a user proposed or received, newest first.
func ListTradesByParticipant(ctx context.Context, q Querier, userID uuid.UUID) ([]model.Trade, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+tradeColumns+tradeFrom+`
		 WHERE t.proposer_id = ? OR t.receiver_id = ?
		 ORDER BY t.created_at DESC, t.id DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		trades = append(trades, *t)
	}
	return trades, rows.Err()
}

// UpdateTrade stores a trade's mutable fields. It reports false when the
// stored status no longer equals prevStatus.
func UpdateTrade(ctx context.Context, q Querier, t model.Trade, prevStatus string) (bool, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE trades SET status = ?, proposer_tracking = ?, receiver_tracking = ?,
		        proposer_confirmed = ?, receiver_confirmed = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		t.Status, t.ProposerTracking, t.ReceiverTracking, t.ProposerConfirmed, t.ReceiverConfirmed,
		t.ID, prevStatus,
	)
	if err != nil {
		return false, fmt.Errorf("updating trade: %w", err)
	}
	return affected(result)
}
