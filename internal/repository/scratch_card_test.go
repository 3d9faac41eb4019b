package repository

import (
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_scratchCardRepository_CheckAndScratch(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	r := NewScratchCardRepository()

	card := &entity.ScratchCard{
		Base:       entity.Base{ID: "card1"},
		CustomerID: testutil.Customer1.ID,
		PrizeKind:  entity.AmountDiscount,
		PrizeValue: decimal.NewFromInt(50),
	}
	require.NoError(t, r.Create(ctx, card))

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, r.CheckAndScratch(ctx, card.ID, now, now.Add(time.Hour)))

	err := r.CheckAndScratch(ctx, card.ID, now.Add(time.Minute), now.Add(2*time.Hour))
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := r.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.True(t, got.IsScratched)
	require.True(t, got.ScratchedAt.Valid)
	require.True(t, got.ExpiresAt.Valid)
	require.True(t, now.Equal(got.ScratchedAt.Time))
	require.True(t, now.Add(time.Hour).Equal(got.ExpiresAt.Time))
	require.True(t, decimal.NewFromInt(50).Equal(got.PrizeValue))

	err = r.CheckAndScratch(ctx, "unknown", now, now)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func Test_scratchCardRepository_GetListByCustomerID(t *testing.T) {
	ctx := testutil.CreateFixtureContext()
	r := NewScratchCardRepository()

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"card1", "card2", "card3"} {
		require.NoError(t, r.Create(ctx, &entity.ScratchCard{
			Base:       entity.Base{ID: id, CreatedAt: start.Add(time.Duration(i) * time.Minute)},
			CustomerID: testutil.Customer1.ID,
			PrizeKind:  entity.BetterLuck,
		}))
	}

	cards, err := r.GetListByCustomerID(ctx, testutil.Customer1.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	require.Equal(t, "card3", cards[0].ID)
	require.Equal(t, "card1", cards[2].ID)

	count, err := r.CountByCustomerID(ctx, testutil.Customer1.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	count, err = r.CountByCustomerID(ctx, testutil.Customer2.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}
