package model

import "github.com/shopspring/decimal"

type RecordPurchaseRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type RecordPurchaseResponse struct {
	PurchaseID  string `json:"purchase_id"`
	CardsMinted int    `json:"cards_minted"`
}

type GetListPurchaseRequest struct {
	CustomerID string `json:"customer_id" form:"customer_id"`
	Offset     int    `json:"offset" form:"offset"`
	Limit      int    `json:"limit" form:"limit"`
}

type GetListPurchaseResponse struct {
	Purchases     []Purchase `json:"purchases"`
	TotalPurchase string     `json:"total_purchase"`
}
