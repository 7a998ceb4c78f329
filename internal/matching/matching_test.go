package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/erazemk/gotchan/internal/apperr"
	"github.com/erazemk/gotchan/internal/model"
)

type fakeStore struct {
	users  map[uuid.UUID]*model.User
	items  []model.Item
	lookup int
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.lookup++
	return f.users[id], nil
}

func (f *fakeStore) ListByOwnerAndType(_ context.Context, ownerID uuid.UUID, itemType string) ([]model.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Item
	for _, i := range f.items {
		if i.OwnerID == ownerID && i.Type == itemType {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAvailableByTypeSeriesName(_ context.Context, itemType, series, name string) ([]model.Item, error) {
	var out []model.Item
	for _, i := range f.items {
		if i.Type == itemType && i.SeriesName == series && i.ItemName == name && i.Status == model.ItemStatusAvailable {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeStore) addUser(nickname string) uuid.UUID {
	u := model.NewUser(nickname, nickname+"@test.com", "hash")
	f.users[u.ID] = &u
	return u.ID
}

func (f *fakeStore) addItem(owner uuid.UUID, itemType, series, name string) int64 {
	i := model.NewItem(owner, itemType, series, name, "")
	i.ID = int64(len(f.items) + 1)
	f.items = append(f.items, i)
	return i.ID
}

func TestSymmetricMatch(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	b := f.addUser("bob")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Luffy")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeWish, "OnePiece", "Luffy")

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 match, got %d", len(results))
	}

	m := results[0]
	if m.PartnerID != b || m.PartnerNickname != "bob" {
		t.Errorf("unexpected partner %s (%s)", m.PartnerID, m.PartnerNickname)
	}
	if !m.PartnerTrustScore.Equal(model.DefaultTrustScore) {
		t.Errorf("unexpected partner trust %s", m.PartnerTrustScore)
	}
	if m.MyHaveItem.ItemName != "Luffy" || m.PartnerHaveItem.ItemName != "Zoro" {
		t.Errorf("unexpected items: my have %s, partner have %s", m.MyHaveItem.ItemName, m.PartnerHaveItem.ItemName)
	}
	if m.PartnerWishItem.ItemName != "Luffy" || m.MyWishItem.ItemName != "Zoro" {
		t.Errorf("unexpected wishes: partner %s, mine %s", m.PartnerWishItem.ItemName, m.MyWishItem.ItemName)
	}

	// The partner sees the mirror image.
	mirror, err := FindMatches(context.Background(), f, f, b)
	if err != nil {
		t.Fatalf("FindMatches(b): %v", err)
	}
	if len(mirror) != 1 || mirror[0].PartnerID != a {
		t.Errorf("expected mirrored match, got %+v", mirror)
	}
}

func TestSeriesIsolation(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	b := f.addUser("bob")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Luffy")
	f.addItem(b, model.ItemTypeWish, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeHave, "Naruto", "Luffy")

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no matches across series, got %d", len(results))
	}
}

func TestEmptyInventories(t *testing.T) {
	tests := []struct {
		name     string
		itemType string
	}{
		{"only haves", model.ItemTypeHave},
		{"only wishes", model.ItemTypeWish},
	}

	for _, tt := range tests {
		f := newFakeStore()
		a := f.addUser("alice")
		f.addItem(a, tt.itemType, "OnePiece", "Luffy")

		results, err := FindMatches(context.Background(), f, f, a)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if results == nil || len(results) != 0 {
			t.Errorf("%s: expected empty non-nil list, got %v", tt.name, results)
		}
	}
}

func TestUnknownUser(t *testing.T) {
	f := newFakeStore()

	_, err := FindMatches(context.Background(), f, f, uuid.New())
	if !apperr.IsCode(err, apperr.CodeEntityNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTradingItemsExcluded(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	b := f.addUser("bob")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Luffy")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Zoro")
	bHave := f.addItem(b, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeWish, "OnePiece", "Luffy")
	f.items[bHave-1].Status = model.ItemStatusTrading

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected trading item to be excluded, got %d matches", len(results))
	}
}

func TestDuplicateWishesCollapse(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	b := f.addUser("bob")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Luffy")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Zoro")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeWish, "OnePiece", "Luffy")

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected duplicate wishes to collapse into 1 match, got %d", len(results))
	}
}

func TestMultiplePartners(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	b := f.addUser("bob")
	c := f.addUser("carol")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Luffy")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Zoro")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Nami")
	f.addItem(b, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(b, model.ItemTypeWish, "OnePiece", "Luffy")
	f.addItem(c, model.ItemTypeHave, "OnePiece", "Nami")
	f.addItem(c, model.ItemTypeHave, "OnePiece", "Zoro")
	f.addItem(c, model.ItemTypeWish, "OnePiece", "Luffy")

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}

	perPartner := map[uuid.UUID]int{}
	for _, m := range results {
		perPartner[m.PartnerID]++
	}
	if perPartner[b] != 1 || perPartner[c] != 2 {
		t.Errorf("unexpected matches per partner: bob %d, carol %d", perPartner[b], perPartner[c])
	}

	// Caller + bob + carol; each partner is looked up once.
	if f.lookup != 3 {
		t.Errorf("expected 3 user lookups, got %d", f.lookup)
	}
}

func TestOwnWishesIgnored(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	f.addItem(a, model.ItemTypeHave, "OnePiece", "Luffy")
	f.addItem(a, model.ItemTypeWish, "OnePiece", "Luffy")

	results, err := FindMatches(context.Background(), f, f, a)
	if err != nil {
		t.Fatalf("FindMatches: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no self matches, got %d", len(results))
	}
}

func TestFinderErrorPropagates(t *testing.T) {
	f := newFakeStore()
	a := f.addUser("alice")
	f.err = errors.New("boom")

	if _, err := FindMatches(context.Background(), f, f, a); err == nil {
		t.Error("expected error")
	}
}
