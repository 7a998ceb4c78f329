package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is a trader. Users own items and take part in trades.
type User struct {
	ID           uuid.UUID       `json:"id"`
	Nickname     string          `json:"nickname"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	TrustScore   decimal.Decimal `json:"trust_score"`
	Address      *string         `json:"address,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Trust score bounds and starting value.
var (
	DefaultTrustScore = decimal.RequireFromString("36.5")
	MaxTrustScore     = decimal.RequireFromString("100.0")
	MinTrustScore     = decimal.Zero
)

// Password length limits.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 50
)

// NewUser returns a user with a fresh id and the default trust score.
func NewUser(nickname, email, passwordHash string) User {
	return User{
		ID:           uuid.New(),
		Nickname:     nickname,
		Email:        email,
		PasswordHash: passwordHash,
		TrustScore:   DefaultTrustScore,
	}
}

// IncreaseTrustScore adds amount, capped at MaxTrustScore.
func (u User) IncreaseTrustScore(amount decimal.Decimal) User {
	u.TrustScore = decimal.Min(u.TrustScore.Add(amount), MaxTrustScore)
	return u
}

// DecreaseTrustScore subtracts amount, floored at MinTrustScore.
func (u User) DecreaseTrustScore(amount decimal.Decimal) User {
	u.TrustScore = decimal.Max(u.TrustScore.Sub(amount), MinTrustScore)
	return u
}

// HasAddress reports whether a shipping address is on file.
func (u User) HasAddress() bool {
	return u.Address != nil && *u.Address != ""
}

// ValidatePassword checks password length rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLen)
	}
	return nil
}
