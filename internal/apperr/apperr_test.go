package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeKindAndStatus(t *testing.T) {
	tests := []struct {
		code   Code
		kind   Kind
		status int
	}{
		{CodeInvalidInput, KindInvalidInput, http.StatusBadRequest},
		{CodeEntityNotFound, KindNotFound, http.StatusNotFound},
		{CodeDuplicateEntity, KindConflict, http.StatusConflict},
		{CodeInvalidState, KindInvalidState, http.StatusBadRequest},
		{CodeItemNotAvailable, KindInvalidState, http.StatusBadRequest},
		{CodeInvalidTradeStatus, KindInvalidState, http.StatusBadRequest},
		{CodeSelfTrade, KindInvalidState, http.StatusBadRequest},
		{CodeForbidden, KindForbidden, http.StatusForbidden},
		{CodeUnauthorized, KindUnauthorized, http.StatusUnauthorized},
		{CodeInvalidToken, KindUnauthorized, http.StatusUnauthorized},
		{CodeInternal, KindInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := tt.code.Kind(); got != tt.kind {
			t.Errorf("%s.Kind() = %q, want %q", tt.code, got, tt.kind)
		}
		if got := tt.code.HTTPStatus(); got != tt.status {
			t.Errorf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.status)
		}
	}
}

func TestWrappedErrorsKeepCode(t *testing.T) {
	err := fmt.Errorf("respond trade: %w", Transition(CodeInvalidTradeStatus, "trade", "FINISHED", "CANCELLED"))

	if !IsCode(err, CodeInvalidTradeStatus) {
		t.Errorf("expected code %s, got %s", CodeInvalidTradeStatus, GetCode(err))
	}
	if !IsKind(err, KindInvalidState) {
		t.Error("expected invalid state kind")
	}
	if !errors.Is(err, New(CodeInvalidTradeStatus, "")) {
		t.Error("expected errors.Is to match by code")
	}

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("expected *Error in chain")
	}
	if e.Metadata["current"] != "FINISHED" || e.Metadata["attempted"] != "CANCELLED" {
		t.Errorf("unexpected metadata: %v", e.Metadata)
	}
}

func TestSelfTradeIsInvalidStateFamily(t *testing.T) {
	err := SelfTrade()
	if !IsKind(err, KindInvalidState) {
		t.Error("self trade should be in the invalid state family")
	}
	if IsCode(err, CodeInvalidState) {
		t.Error("self trade should keep its own code")
	}
}

func TestForeignErrors(t *testing.T) {
	err := errors.New("disk on fire")
	if GetCode(err) != CodeInternal {
		t.Errorf("expected internal code, got %s", GetCode(err))
	}
	if IsKind(err, KindNotFound) {
		t.Error("foreign error should not match a kind")
	}

	wrapped := Wrap(CodeInternal, "saving trade", err)
	if !errors.Is(wrapped, err) {
		t.Error("expected cause to be reachable")
	}
}
