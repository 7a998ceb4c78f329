package store

import (
	"context"
	"testing"

	"github.com/erazemk/gotchan/internal/db"
	"github.com/erazemk/gotchan/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := mustCreateUser(t, database, "alice")
	item := mustCreateItem(t, database, owner.ID, model.ItemTypeHave, "OnePiece", "Luffy")

	if item.Status != model.ItemStatusAvailable {
		t.Errorf("expected status AVAILABLE, got %q", item.Status)
	}
	if item.OwnerNickname != "alice" {
		t.Errorf("expected joined nickname 'alice', got %q", item.OwnerNickname)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.SeriesName != "OnePiece" || got.ItemName != "Luffy" || got.Type != model.ItemTypeHave {
		t.Errorf("unexpected item %+v", got)
	}

	missing, err := GetItem(ctx, database, 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil for unknown item, got %v %v", missing, err)
	}
}

func TestListItemsByOwnerAndType(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	bob := mustCreateUser(t, database, "bob")
	mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Luffy")
	mustCreateItem(t, database, alice.ID, model.ItemTypeWish, "OnePiece", "Zoro")
	mustCreateItem(t, database, bob.ID, model.ItemTypeHave, "OnePiece", "Zoro")

	all, _ := ListItemsByOwner(ctx, database, alice.ID)
	if len(all) != 2 {
		t.Errorf("expected 2 items, got %d", len(all))
	}

	haves, _ := ListItemsByOwnerAndType(ctx, database, alice.ID, model.ItemTypeHave)
	if len(haves) != 1 || haves[0].ItemName != "Luffy" {
		t.Errorf("unexpected haves %+v", haves)
	}
}

func TestListAvailableItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	bob := mustCreateUser(t, database, "bob")
	mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")
	busy := mustCreateItem(t, database, bob.ID, model.ItemTypeHave, "OnePiece", "Zoro")
	mustCreateItem(t, database, bob.ID, model.ItemTypeHave, "Naruto", "Zoro")
	mustCreateItem(t, database, bob.ID, model.ItemTypeWish, "OnePiece", "Zoro")

	if ok, err := UpdateItemStatus(ctx, database, busy.ID, model.ItemStatusAvailable, model.ItemStatusTrading); !ok || err != nil {
		t.Fatalf("UpdateItemStatus: %v %v", ok, err)
	}

	items, err := ListAvailableItems(ctx, database, model.ItemTypeHave, "OnePiece", "Zoro")
	if err != nil {
		t.Fatalf("ListAvailableItems: %v", err)
	}
	if len(items) != 1 || items[0].OwnerID != alice.ID {
		t.Errorf("expected only alice's item, got %+v", items)
	}
}

func TestListItemsBySeries(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")
	mustCreateItem(t, database, alice.ID, model.ItemTypeWish, "OnePiece", "Luffy")
	mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "Naruto", "Kakashi")

	items, _ := ListItemsBySeries(ctx, database, "OnePiece")
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ItemName != "Luffy" {
		t.Errorf("expected name ordering, got %q first", items[0].ItemName)
	}
}

func TestUpdateItemStatusIsGuarded(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")

	ok, err := UpdateItemStatus(ctx, database, item.ID, model.ItemStatusAvailable, model.ItemStatusTrading)
	if err != nil || !ok {
		t.Fatalf("first update: %v %v", ok, err)
	}

	// A second writer expecting AVAILABLE loses.
	ok, err = UpdateItemStatus(ctx, database, item.ID, model.ItemStatusAvailable, model.ItemStatusTrading)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if ok {
		t.Error("expected stale update to report false")
	}
}

func TestUpdateItemInfo(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")

	ok, err := UpdateItemInfo(ctx, database, item.ID, "Naruto", "Kakashi", "/img")
	if err != nil || !ok {
		t.Fatalf("UpdateItemInfo: %v %v", ok, err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.SeriesName != "Naruto" || got.ItemName != "Kakashi" || got.ImageURL != "/img" {
		t.Errorf("unexpected item %+v", got)
	}

	UpdateItemStatus(ctx, database, item.ID, model.ItemStatusAvailable, model.ItemStatusTrading)
	ok, _ = UpdateItemInfo(ctx, database, item.ID, "X", "Y", "")
	if ok {
		t.Error("expected update of trading item to be refused")
	}
}

func TestSoftDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")

	ok, err := DeleteItem(ctx, database, item.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteItem: %v %v", ok, err)
	}

	items, _ := ListItemsByOwner(ctx, database, alice.ID)
	if len(items) != 0 {
		t.Errorf("expected 0 items after soft delete, got %d", len(items))
	}

	// Still fetchable by ID so trades keep their references.
	got, _ := GetItem(ctx, database, item.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("expected soft-deleted item to still be fetchable by ID")
	}

	ok, _ = DeleteItem(ctx, database, item.ID)
	if ok {
		t.Error("expected second delete to report false")
	}
}

func TestItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := mustCreateUser(t, database, "alice")
	item := mustCreateItem(t, database, alice.ID, model.ItemTypeHave, "OnePiece", "Zoro")

	if err := SetItemImage(ctx, database, item.ID, []byte("fake image data"), "image/png"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err := GetItemImage(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/png" {
		t.Errorf("expected mime 'image/png', got %q", mime)
	}
}
