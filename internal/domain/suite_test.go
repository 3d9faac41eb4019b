package domain

import (
	"context"
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/clock"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/testutil"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testStartTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type constSource float64

func (s constSource) Float64() float64 {
	return float64(s)
}

// suite wires the domains over one fixture database the same way the api
// server does.
type suite struct {
	ctx       context.Context
	clock     *clock.Mock
	published chan *pubsub.Pack

	customerRepo repository.CustomerRepository
	purchaseRepo repository.PurchaseRepository
	cardRepo     repository.ScratchCardRepository

	accrual    *reward.Accrual
	prizeTable *reward.PrizeTable
	cardStore  *CardStore
	issuer     *Issuer

	customerDomain    *customerDomain
	purchaseDomain    *purchaseDomain
	scratchCardDomain *scratchCardDomain
}

func newSuite(t *testing.T, source reward.RandomSource) *suite {
	s := &suite{
		ctx:          testutil.CreateFixtureContext(),
		clock:        clock.NewMock(testStartTime),
		published:    make(chan *pubsub.Pack, 100),
		customerRepo: repository.NewCustomerRepository(),
		purchaseRepo: repository.NewPurchaseRepository(),
		cardRepo:     repository.NewScratchCardRepository(),
	}

	cfg := xcontext.Configs(s.ctx).Reward

	var err error
	s.accrual, err = reward.NewAccrual(cfg.SpendPerCard)
	require.NoError(t, err)

	s.prizeTable, err = reward.NewPrizeTableFromConfigs(cfg.Prizes)
	require.NoError(t, err)

	s.cardStore = NewCardStore(s.cardRepo, s.customerRepo, s.clock, cfg.ExpiryWindow)
	s.issuer = s.newIssuer(s.cardRepo, source)

	verifier := common.NewShopCustomerVerifier(s.customerRepo)
	s.customerDomain = NewCustomerDomain(s.customerRepo, s.purchaseRepo, verifier)
	s.purchaseDomain = NewPurchaseDomain(s.purchaseRepo, verifier, s.issuer, s.clock)
	s.scratchCardDomain = NewScratchCardDomain(s.cardStore, s.issuer, s.accrual, s.prizeTable, verifier)
	return s
}

// newIssuer returns an issuer with its own lock table, like an issuer in
// another process sharing the database.
func (s *suite) newIssuer(cardRepo repository.ScratchCardRepository, source reward.RandomSource) *Issuer {
	cardStore := NewCardStore(cardRepo, s.customerRepo, s.clock, xcontext.Configs(s.ctx).Reward.ExpiryWindow)
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			s.published <- pack
			return nil
		},
	}

	return NewIssuer(
		s.customerRepo, s.purchaseRepo, cardStore, s.accrual,
		reward.NewDrawer(s.prizeTable, source), publisher,
	)
}

func (s *suite) shopkeeperCtx(shopID string) context.Context {
	return testutil.MockContextWithUserID(s.ctx, shopID, string(entity.ShopkeeperRole))
}

func (s *suite) customerCtx(customerID string) context.Context {
	return testutil.MockContextWithUserID(s.ctx, customerID, string(entity.CustomerRole))
}

func (s *suite) addPurchase(t *testing.T, customerID, amount string) {
	err := s.purchaseRepo.Create(s.ctx, &entity.Purchase{
		SnowFlakeBase: entity.SnowFlakeBase{ID: idutil.NextSnowflake(), CreatedAt: s.clock.Now()},
		CustomerID:    customerID,
		Amount:        decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
}

func (s *suite) countCards(t *testing.T, customerID string) int64 {
	count, err := s.cardRepo.CountByCustomerID(s.ctx, customerID)
	require.NoError(t, err)
	return count
}

func (s *suite) issuedCards(t *testing.T, customerID string) int64 {
	customer, err := s.customerRepo.GetByID(s.ctx, customerID)
	require.NoError(t, err)
	return customer.IssuedCards
}

func (s *suite) waitPublished(t *testing.T) *pubsub.Pack {
	select {
	case pack := <-s.published:
		return pack
	case <-time.After(5 * time.Second):
		require.FailNow(t, "no event was published")
		return nil
	}
}
