package model

const (
	RevealStatusRevealed         = "revealed"
	RevealStatusAlreadyScratched = "already_scratched"
)

type GetMyCardsRequest struct {
	ActiveOnly bool `json:"active_only" form:"active_only"`
}

type GetMyCardsResponse struct {
	Cards []ScratchCard `json:"cards"`
}

type GetListCardRequest struct {
	CustomerID string `json:"customer_id" form:"customer_id"`
	ActiveOnly bool   `json:"active_only" form:"active_only"`
}

type GetListCardResponse struct {
	Cards []ScratchCard `json:"cards"`
}

type RevealCardRequest struct {
	CardID string `json:"card_id"`
}

// RevealCardResponse carries the prize only when Status is revealed.
type RevealCardResponse struct {
	Status string      `json:"status"`
	Card   ScratchCard `json:"card"`
}

type IssueCardsRequest struct {
	CustomerID string `json:"customer_id"`
}

type IssueCardsResponse struct {
	CardsMinted int `json:"cards_minted"`
}

type GetPrizeTableRequest struct{}

type GetPrizeTableResponse struct {
	SpendPerCard string  `json:"spend_per_card"`
	ExpiryWindow string  `json:"expiry_window"`
	Prizes       []Prize `json:"prizes"`
}
