package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/model"
)

func mustCreateUser(t *testing.T, q Querier, nickname string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), q, model.NewUser(nickname, nickname+"@test.com", "hash"))
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func mustCreateItem(t *testing.T, q Querier, owner uuid.UUID, itemType, series, name string) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), q, model.NewItem(owner, itemType, series, name, ""))
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
