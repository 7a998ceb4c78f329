package model

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("tester", "test@test.com", "hash")

	if !u.TrustScore.Equal(decimal.RequireFromString("36.5")) {
		t.Errorf("expected trust score 36.5, got %s", u.TrustScore)
	}
	if u.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("expected a generated id")
	}
	if u.HasAddress() {
		t.Error("new user should have no address")
	}
}

func TestTrustScoreClamping(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		increase string
		decrease string
		want     string
	}{
		{"increase", "36.5", "1.0", "", "37.5"},
		{"decrease", "36.5", "", "1.0", "35.5"},
		{"floor at zero", "36.5", "", "100.0", "0"},
		{"cap at hundred", "99.5", "5.0", "", "100"},
		{"exactly hundred", "99.0", "1.0", "", "100"},
		{"exactly zero", "1.5", "", "1.5", "0"},
	}

	for _, tt := range tests {
		u := User{TrustScore: decimal.RequireFromString(tt.start)}
		if tt.increase != "" {
			u = u.IncreaseTrustScore(decimal.RequireFromString(tt.increase))
		}
		if tt.decrease != "" {
			u = u.DecreaseTrustScore(decimal.RequireFromString(tt.decrease))
		}
		if !u.TrustScore.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("%s: got %s, want %s", tt.name, u.TrustScore, tt.want)
		}
	}
}

func TestTrustScoreDoesNotMutateReceiver(t *testing.T) {
	u := User{TrustScore: DefaultTrustScore}
	_ = u.IncreaseTrustScore(decimal.NewFromInt(10))
	if !u.TrustScore.Equal(DefaultTrustScore) {
		t.Errorf("receiver changed to %s", u.TrustScore)
	}
}

func TestHasAddress(t *testing.T) {
	empty := ""
	addr := "Ljubljana 1"

	if (User{Address: &empty}).HasAddress() {
		t.Error("empty address should not count")
	}
	if !(User{Address: &addr}).HasAddress() {
		t.Error("expected address")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
		{strings.Repeat("x", 50), false},
		{strings.Repeat("x", 51), true},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}
