package model

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/shopspring/decimal"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertCustomer(customer *entity.Customer, total *decimal.Decimal) Customer {
	if customer == nil {
		return Customer{}
	}

	result := Customer{
		ID:          customer.ID,
		ShopID:      customer.ShopID,
		Name:        customer.Name,
		Phone:       customer.Phone,
		IssuedCards: customer.IssuedCards,
		CreatedAt:   customer.CreatedAt.Format(DefaultTimeLayout),
	}

	if total != nil {
		result.TotalPurchase = total.StringFixed(2)
	}

	return result
}

func ConvertPurchase(purchase *entity.Purchase) Purchase {
	if purchase == nil {
		return Purchase{}
	}

	return Purchase{
		ID:         strconv.FormatInt(purchase.ID, 10),
		CustomerID: purchase.CustomerID,
		Amount:     purchase.Amount.StringFixed(2),
		RecordedBy: purchase.RecordedBy,
		CreatedAt:  purchase.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPrize(prize reward.Prize) Prize {
	return Prize{
		Kind:   string(prize.Kind),
		Value:  prize.Value.StringFixed(2),
		Weight: prize.Weight,
	}
}

// ConvertScratchCard derives the state of the card at now. The prize is only
// included after the card has been scratched.
func ConvertScratchCard(card *entity.ScratchCard, now time.Time) ScratchCard {
	if card == nil {
		return ScratchCard{}
	}

	state := reward.StateOf(card.IsScratched, card.ExpiresAt, now)
	result := ScratchCard{
		ID:          card.ID,
		CustomerID:  card.CustomerID,
		State:       string(state),
		IssuedAt:    card.CreatedAt.Format(DefaultTimeLayout),
		ScratchedAt: formatNullTime(card.ScratchedAt),
		ExpiresAt:   formatNullTime(card.ExpiresAt),
	}

	if state != reward.Unscratched {
		result.Prize = &Prize{
			Kind:  string(card.PrizeKind),
			Value: card.PrizeValue.StringFixed(2),
		}
	}

	return result
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}

	return t.Time.Format(DefaultTimeLayout)
}
