package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/gotchan/internal/model"
)

const userColumns = `id, nickname, email, password_hash, trust_score, address, created_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Nickname, &u.Email, &u.PasswordHash, &u.TrustScore, &u.Address, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser inserts a user. The caller assigns the ID.
func CreateUser(ctx context.Context, q Querier, u model.User) (*model.User, error) {
	_, err := q.ExecContext(ctx,
		`INSERT INTO users (id, nickname, email, password_hash, trust_score, address) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Nickname, u.Email, u.PasswordHash, u.TrustScore, u.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, q, u.ID)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, q Querier, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email.
func GetUserByEmail(ctx context.Context, q Querier, email string) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, nil
}

// GetUserByNickname returns a user by nickname.
func GetUserByNickname(ctx context.Context, q Querier, nickname string) (*model.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE nickname = ?`, nickname,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by nickname: %w", err)
	}
	return u, nil
}

// UpdateUserProfile updates a user's nickname and address.
func UpdateUserProfile(ctx context.Context, q Querier, id uuid.UUID, nickname string, address *string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET nickname = ?, address = ? WHERE id = ?`,
		nickname, address, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, q Querier, id uuid.UUID, passwordHash string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// UpdateTrustScore stores a user's trust score.
func UpdateTrustScore(ctx context.Context, q Querier, id uuid.UUID, score decimal.Decimal) error {
	_, err := q.ExecContext(ctx,
		`UPDATE users SET trust_score = ? WHERE id = ?`,
		score, id,
	)
	if err != nil {
		return fmt.Errorf("updating trust score: %w", err)
	}
	return nil
}
