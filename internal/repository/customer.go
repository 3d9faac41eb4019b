package repository

import (
	"context"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByShopIDAndPhone(ctx context.Context, shopID, phone string) (*entity.Customer, error)
	GetListByShopID(ctx context.Context, shopID string, offset, limit int) ([]entity.Customer, error)

	// CheckAndIncreaseIssuedCards increases the issued card counter by one only
	// if it still equals the expected value. It returns gorm.ErrRecordNotFound
	// if the customer doesn't exist or the counter has been changed.
	CheckAndIncreaseIssuedCards(ctx context.Context, id string, expected int64) error
}

type customerRepository struct{}

func NewCustomerRepository() *customerRepository {
	return &customerRepository{}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return xcontext.DB(ctx).Create(customer).Error
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var result entity.Customer
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *customerRepository) GetByShopIDAndPhone(
	ctx context.Context, shopID, phone string,
) (*entity.Customer, error) {
	var result entity.Customer
	err := xcontext.DB(ctx).Take(&result, "shop_id=? AND phone=?", shopID, phone).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *customerRepository) GetListByShopID(
	ctx context.Context, shopID string, offset, limit int,
) ([]entity.Customer, error) {
	var result []entity.Customer
	err := xcontext.DB(ctx).
		Where("shop_id=?", shopID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *customerRepository) CheckAndIncreaseIssuedCards(
	ctx context.Context, id string, expected int64,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Customer{}).
		Where("id=? AND issued_cards=?", id, expected).
		Update("issued_cards", gorm.Expr("issued_cards+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
