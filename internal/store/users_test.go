package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erazemk/gotchan/internal/db"
	"github.com/erazemk/gotchan/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustCreateUser(t, database, "testuser")
	if user.Nickname != "testuser" {
		t.Errorf("expected nickname 'testuser', got %q", user.Nickname)
	}
	if !user.TrustScore.Equal(model.DefaultTrustScore) {
		t.Errorf("expected default trust score, got %s", user.TrustScore)
	}
	if user.Address != nil {
		t.Errorf("expected no address, got %q", *user.Address)
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.ID != user.ID || got.Email != "testuser@test.com" {
		t.Errorf("unexpected user %+v", got)
	}
}

func TestGetUserNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	user, err := GetUser(context.Background(), database, uuid.New())
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user != nil {
		t.Error("expected nil for unknown user")
	}
}

func TestGetUserByEmailAndNickname(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")

	byEmail, err := GetUserByEmail(ctx, database, "alice@test.com")
	if err != nil || byEmail == nil || byEmail.ID != alice.ID {
		t.Fatalf("GetUserByEmail: %v %v", byEmail, err)
	}

	byNick, err := GetUserByNickname(ctx, database, "alice")
	if err != nil || byNick == nil || byNick.ID != alice.ID {
		t.Fatalf("GetUserByNickname: %v %v", byNick, err)
	}

	missing, err := GetUserByNickname(ctx, database, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, got %v %v", missing, err)
	}
}

func TestDuplicateNicknameRejected(t *testing.T) {
	database := db.NewTestDB(t)

	mustCreateUser(t, database, "alice")
	dup := model.NewUser("alice", "other@test.com", "hash")
	if _, err := CreateUser(context.Background(), database, dup); err == nil {
		t.Error("expected unique constraint error")
	}
}

func TestUpdateUserProfileAndPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustCreateUser(t, database, "alice")
	addr := "Trg 1, Ljubljana"

	if err := UpdateUserProfile(ctx, database, user.ID, "alicia", &addr); err != nil {
		t.Fatalf("UpdateUserProfile: %v", err)
	}
	if err := UpdateUserPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if got.Nickname != "alicia" || got.Address == nil || *got.Address != addr {
		t.Errorf("profile not updated: %+v", got)
	}
	if got.PasswordHash != "newhash" {
		t.Errorf("password not updated")
	}
}

func TestUpdateTrustScore(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := mustCreateUser(t, database, "alice")
	score := decimal.RequireFromString("41.25")

	if err := UpdateTrustScore(ctx, database, user.ID, score); err != nil {
		t.Fatalf("UpdateTrustScore: %v", err)
	}

	got, _ := GetUser(ctx, database, user.ID)
	if !got.TrustScore.Equal(score) {
		t.Errorf("expected %s, got %s", score, got.TrustScore)
	}
}
