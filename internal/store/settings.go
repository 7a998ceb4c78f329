package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GetSetting returns a stored setting, or "" when it is not set.
func GetSetting(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT value FROM settings WHERE key = ?), '')`, key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("querying setting %s: %w", key, err)
	}
	return value, nil
}

// GetJWTSecret returns the signing secret. A configured secret is stored
// and wins; otherwise the stored secret is used, generating one on first run.
// INSERT OR IGNORE + re-SELECT keeps concurrent startups consistent.
func GetJWTSecret(ctx context.Context, q Querier, configured string) (string, error) {
	if configured != "" {
		_, err := q.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES ('jwt_secret', ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			configured,
		)
		if err != nil {
			return "", fmt.Errorf("storing jwt_secret: %w", err)
		}
		return configured, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := q.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	secret, err := GetSetting(ctx, q, "jwt_secret")
	if err != nil {
		return "", err
	}
	return secret, nil
}
