package entity

type Customer struct {
	Base

	// ShopID is the id of the shopkeeper who registered this customer.
	ShopID string `gorm:"size:64;uniqueIndex:idx_customers_shop_id_phone"`
	Name   string `gorm:"size:256"`
	Phone  string `gorm:"size:32;uniqueIndex:idx_customers_shop_id_phone"`

	// IssuedCards always equals the number of scratch cards of this customer.
	// It's only increased together with a card insert in the same transaction.
	IssuedCards int64 `gorm:"not null;default:0"`
}
