package entity

import (
	"database/sql"

	"github.com/scratchcard-lab/backend/pkg/enum"
	"github.com/shopspring/decimal"
)

type PrizeKind string

var (
	PercentageDiscount = enum.New(PrizeKind("percentage_discount"))
	AmountDiscount     = enum.New(PrizeKind("amount_discount"))
	BetterLuck         = enum.New(PrizeKind("better_luck"))
)

// ScratchCard is minted unscratched. The only write after creation is the
// one-way transition to scratched, which sets ScratchedAt and ExpiresAt.
type ScratchCard struct {
	Base

	CustomerID string   `gorm:"size:64;index:idx_scratch_cards_customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID"`

	PrizeKind  PrizeKind       `gorm:"size:32"`
	PrizeValue decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	IsScratched bool `gorm:"not null;default:false"`
	ScratchedAt sql.NullTime
	ExpiresAt   sql.NullTime
}
