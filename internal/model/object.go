package model

type Customer struct {
	ID            string `json:"id"`
	ShopID        string `json:"shop_id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	IssuedCards   int64  `json:"issued_cards"`
	TotalPurchase string `json:"total_purchase,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type Purchase struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     string `json:"amount"`
	RecordedBy string `json:"recorded_by"`
	CreatedAt  string `json:"created_at"`
}

type Prize struct {
	Kind   string  `json:"kind"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight,omitempty"`
}

// ScratchCard hides the prize until the card is scratched.
type ScratchCard struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	State       string `json:"state"`
	Prize       *Prize `json:"prize,omitempty"`
	IssuedAt    string `json:"issued_at"`
	ScratchedAt string `json:"scratched_at,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// CardsMintedEvent is published after an issuance run minted at least one
// card. EventID is unique per run and is used to deduplicate deliveries.
type CardsMintedEvent struct {
	EventID       string `json:"event_id" structs:"event_id"`
	CustomerID    string `json:"customer_id" structs:"customer_id"`
	ShopID        string `json:"shop_id" structs:"shop_id"`
	Phone         string `json:"phone" structs:"-"`
	Name          string `json:"name" structs:"-"`
	CardsMinted   int    `json:"cards_minted" structs:"cards_minted"`
	TotalPurchase string `json:"total_purchase" structs:"total_purchase"`
}
