package repository

import (
	"context"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// PurchaseRepository is the purchase ledger. It has no update or delete
// method because purchases are append-only.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	SumAmountByCustomerID(ctx context.Context, customerID string) (decimal.Decimal, error)
	GetListByCustomerID(ctx context.Context, customerID string, offset, limit int) ([]entity.Purchase, error)
}

type purchaseRepository struct{}

func NewPurchaseRepository() *purchaseRepository {
	return &purchaseRepository{}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(purchase).Error
}

func (r *purchaseRepository) SumAmountByCustomerID(
	ctx context.Context, customerID string,
) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := xcontext.DB(ctx).Model(&entity.Purchase{}).
		Select("SUM(amount)").
		Where("customer_id=?", customerID).
		Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}

	if !sum.Valid {
		return decimal.Zero, nil
	}

	// Some drivers return the sum of a decimal column as a float.
	return sum.Decimal.Round(2), nil
}

func (r *purchaseRepository) GetListByCustomerID(
	ctx context.Context, customerID string, offset, limit int,
) ([]entity.Purchase, error) {
	var result []entity.Purchase
	err := xcontext.DB(ctx).
		Where("customer_id=?", customerID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
