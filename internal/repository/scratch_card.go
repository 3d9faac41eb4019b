package repository

import (
	"context"
	"time"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScratchCardRepository interface {
	Create(ctx context.Context, card *entity.ScratchCard) error
	GetByID(ctx context.Context, id string) (*entity.ScratchCard, error)
	CountByCustomerID(ctx context.Context, customerID string) (int64, error)

	// GetListByCustomerID returns cards of the customer, newest first.
	GetListByCustomerID(ctx context.Context, customerID string) ([]entity.ScratchCard, error)

	// CheckAndScratch marks the card as scratched only if it's not scratched
	// yet. It returns gorm.ErrRecordNotFound if no row was changed.
	CheckAndScratch(ctx context.Context, id string, scratchedAt, expiresAt time.Time) error
}

type scratchCardRepository struct{}

func NewScratchCardRepository() *scratchCardRepository {
	return &scratchCardRepository{}
}

func (r *scratchCardRepository) Create(ctx context.Context, card *entity.ScratchCard) error {
	return xcontext.DB(ctx).Omit(clause.Associations).Create(card).Error
}

func (r *scratchCardRepository) GetByID(ctx context.Context, id string) (*entity.ScratchCard, error) {
	var result entity.ScratchCard
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *scratchCardRepository) CountByCustomerID(ctx context.Context, customerID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ScratchCard{}).
		Where("customer_id=?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *scratchCardRepository) GetListByCustomerID(
	ctx context.Context, customerID string,
) ([]entity.ScratchCard, error) {
	var result []entity.ScratchCard
	err := xcontext.DB(ctx).
		Where("customer_id=?", customerID).
		Order("created_at DESC, id DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *scratchCardRepository) CheckAndScratch(
	ctx context.Context, id string, scratchedAt, expiresAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.ScratchCard{}).
		Where("id=? AND is_scratched=?", id, false).
		Updates(map[string]any{
			"is_scratched": true,
			"scratched_at": scratchedAt,
			"expires_at":   expiresAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
