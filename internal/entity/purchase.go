package entity

import "github.com/shopspring/decimal"

// Purchase is append-only, it's never updated or deleted.
type Purchase struct {
	SnowFlakeBase

	CustomerID string   `gorm:"size:64;index:idx_purchases_customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID"`

	Amount     decimal.Decimal `gorm:"type:decimal(20,2);not null"`
	RecordedBy string          `gorm:"size:64"`
}
