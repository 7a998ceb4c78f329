package store

import (
	"context"
	"testing"

	"github.com/erazemk/gotchan/internal/db"
)

func TestGetJWTSecret_GeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// First call should generate a secret.
	secret1, err := GetJWTSecret(ctx, database, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	// Second call should return the same secret.
	secret2, err := GetJWTSecret(ctx, database, "")
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestGetJWTSecret_ConfiguredWins(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := GetJWTSecret(ctx, database, ""); err != nil {
		t.Fatal(err)
	}

	secret, err := GetJWTSecret(ctx, database, "configured-secret")
	if err != nil {
		t.Fatal(err)
	}
	if secret != "configured-secret" {
		t.Fatalf("expected configured secret, got %q", secret)
	}

	// The configured secret is persisted for later runs without one.
	stored, err := GetJWTSecret(ctx, database, "")
	if err != nil {
		t.Fatal(err)
	}
	if stored != "configured-secret" {
		t.Fatalf("expected stored configured secret, got %q", stored)
	}
}

func TestGetSettingMissing(t *testing.T) {
	database := db.NewTestDB(t)

	value, err := GetSetting(context.Background(), database, "nope")
	if err != nil {
		t.Fatal(err)
	}
	if value != "" {
		t.Fatalf("expected empty value, got %q", value)
	}
}
