package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchResult is a possible two-item swap with another user: the partner
// wants MyHaveItem and has PartnerHaveItem, which the caller wants.
type MatchResult struct {
	PartnerID         uuid.UUID       `json:"partner_id"`
	PartnerNickname   string          `json:"partner_nickname"`
	PartnerTrustScore decimal.Decimal `json:"partner_trust_score"`
	MyHaveItem        Item            `json:"my_have_item"`
	PartnerWishItem   Item            `json:"partner_wish_item"`
	PartnerHaveItem   Item            `json:"partner_have_item"`
	MyWishItem        Item            `json:"my_wish_item"`
}
