package domain

import (
	"testing"
	"time"

	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/crypto"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func Test_purchaseDomain_Record_Validation(t *testing.T) {
	s := newSuite(t, constSource(0.5))
	ctx := s.shopkeeperCtx(testutil.Shop1)

	tests := []struct {
		name    string
		req     *model.RecordPurchaseRequest
		wantErr errorx.Code
	}{
		{
			name:    "zero amount",
			req:     &model.RecordPurchaseRequest{CustomerID: testutil.Customer1.ID, Amount: decimal.Zero},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "negative amount",
			req:     &model.RecordPurchaseRequest{CustomerID: testutil.Customer1.ID, Amount: decimal.NewFromInt(-1)},
			wantErr: errorx.BadRequest,
		},
		{
			name: "too many decimal places",
			req: &model.RecordPurchaseRequest{
				CustomerID: testutil.Customer1.ID,
				Amount:     decimal.RequireFromString("10.005"),
			},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "unknown customer",
			req:     &model.RecordPurchaseRequest{CustomerID: "unknown", Amount: decimal.NewFromInt(10)},
			wantErr: errorx.NotFound,
		},
		{
			name:    "customer of another shop",
			req:     &model.RecordPurchaseRequest{CustomerID: testutil.Customer3.ID, Amount: decimal.NewFromInt(10)},
			wantErr: errorx.PermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.purchaseDomain.Record(ctx, tt.req)
			require.ErrorIs(t, err, errorx.Error{Code: tt.wantErr})
		})
	}

	// A customer can't record purchases.
	_, err := s.purchaseDomain.Record(s.customerCtx(testutil.Customer1.ID), &model.RecordPurchaseRequest{
		CustomerID: testutil.Customer1.ID,
		Amount:     decimal.NewFromInt(10),
	})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.PermissionDenied})
}

func Test_purchaseDomain_Record_ConcurrentPurchases(t *testing.T) {
	s := newSuite(t, crypto.Source{})
	ctx := s.shopkeeperCtx(testutil.Shop1)

	// Two api instances record a qualifying purchase at the same time.
	domains := []*purchaseDomain{
		s.purchaseDomain,
		NewPurchaseDomain(s.purchaseRepo, s.purchaseDomain.shopCustomerVerifier,
			s.newIssuer(s.cardRepo, crypto.Source{}), s.clock),
	}

	minted := make([]int, len(domains))
	var eg errgroup.Group
	for i := range domains {
		i := i
		eg.Go(func() error {
			resp, err := domains[i].Record(ctx, &model.RecordPurchaseRequest{
				CustomerID: testutil.Customer1.ID,
				Amount:     decimal.NewFromInt(150),
			})
			if err != nil {
				return err
			}

			minted[i] = resp.CardsMinted
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	require.Equal(t, 2, minted[0]+minted[1])
	require.Equal(t, int64(2), s.countCards(t, testutil.Customer1.ID))
}

func Test_purchaseDomain_Record_PartialIssuance(t *testing.T) {
	s := newSuite(t, constSource(0.5))
	ctx := s.shopkeeperCtx(testutil.Shop1)

	d := NewPurchaseDomain(s.purchaseRepo, s.purchaseDomain.shopCustomerVerifier,
		s.newIssuer(&failingCardRepo{ScratchCardRepository: s.cardRepo, remaining: 1}, constSource(0.5)), s.clock)
	resp, err := d.Record(ctx, &model.RecordPurchaseRequest{
		CustomerID: testutil.Customer1.ID,
		Amount:     decimal.NewFromInt(450),
	})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.PartialIssuance})

	// The purchase is recorded, its id is returned with the error.
	require.NotNil(t, resp)
	require.NotEmpty(t, resp.PurchaseID)
	require.Equal(t, 1, resp.CardsMinted)
	s.waitPublished(t)

	issueResp, err := s.scratchCardDomain.IssueCards(ctx, &model.IssueCardsRequest{CustomerID: testutil.Customer1.ID})
	require.NoError(t, err)
	require.Equal(t, 2, issueResp.CardsMinted)

	listResp, err := s.purchaseDomain.GetList(ctx, &model.GetListPurchaseRequest{CustomerID: testutil.Customer1.ID})
	require.NoError(t, err)
	require.Len(t, listResp.Purchases, 1)
	require.Equal(t, resp.PurchaseID, listResp.Purchases[0].ID)
	require.Equal(t, "450.00", listResp.TotalPurchase)
}

func Test_purchaseDomain_GetList(t *testing.T) {
	s := newSuite(t, constSource(0.5))
	ctx := s.shopkeeperCtx(testutil.Shop1)

	for _, amount := range []string{"10.10", "20.20", "30.30"} {
		_, err := s.purchaseDomain.Record(ctx, &model.RecordPurchaseRequest{
			CustomerID: testutil.Customer1.ID,
			Amount:     decimal.RequireFromString(amount),
		})
		require.NoError(t, err)
	}

	resp, err := s.purchaseDomain.GetList(ctx, &model.GetListPurchaseRequest{CustomerID: testutil.Customer1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Purchases, 3)
	require.Equal(t, "30.30", resp.Purchases[0].Amount)
	require.Equal(t, "60.60", resp.TotalPurchase)

	_, err = s.purchaseDomain.GetList(ctx, &model.GetListPurchaseRequest{
		CustomerID: testutil.Customer1.ID,
		Limit:      1000,
	})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.BadRequest})
}

// A purchase earns a card, the customer reveals it once, then it expires.
func Test_EndToEnd(t *testing.T) {
	s := newSuite(t, constSource(0.25))
	shopCtx := s.shopkeeperCtx(testutil.Shop1)
	customerCtx := s.customerCtx(testutil.Customer1.ID)

	recordResp, err := s.purchaseDomain.Record(shopCtx, &model.RecordPurchaseRequest{
		CustomerID: testutil.Customer1.ID,
		Amount:     decimal.RequireFromString("150.00"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, recordResp.PurchaseID)
	require.Equal(t, 1, recordResp.CardsMinted)
	s.waitPublished(t)

	cardsResp, err := s.scratchCardDomain.GetMyCards(customerCtx, &model.GetMyCardsRequest{})
	require.NoError(t, err)
	require.Len(t, cardsResp.Cards, 1)
	card := cardsResp.Cards[0]
	require.Equal(t, "unscratched", card.State)
	require.Nil(t, card.Prize)

	// Another customer can't reveal it.
	_, err = s.scratchCardDomain.Reveal(s.customerCtx(testutil.Customer2.ID), &model.RevealCardRequest{CardID: card.ID})
	require.ErrorIs(t, err, errorx.Error{Code: errorx.PermissionDenied})

	revealResp, err := s.scratchCardDomain.Reveal(customerCtx, &model.RevealCardRequest{CardID: card.ID})
	require.NoError(t, err)
	require.Equal(t, model.RevealStatusRevealed, revealResp.Status)
	require.Equal(t, "active", revealResp.Card.State)
	require.NotNil(t, revealResp.Card.Prize)
	require.Equal(t, "amount_discount", revealResp.Card.Prize.Kind)
	require.Equal(t, "50.00", revealResp.Card.Prize.Value)

	revealResp, err = s.scratchCardDomain.Reveal(customerCtx, &model.RevealCardRequest{CardID: card.ID})
	require.NoError(t, err)
	require.Equal(t, model.RevealStatusAlreadyScratched, revealResp.Status)
	require.Nil(t, revealResp.Card.Prize)

	s.clock.Advance(61 * time.Minute)
	cardsResp, err = s.scratchCardDomain.GetMyCards(customerCtx, &model.GetMyCardsRequest{})
	require.NoError(t, err)
	require.Equal(t, "expired", cardsResp.Cards[0].State)

	cardsResp, err = s.scratchCardDomain.GetMyCards(customerCtx, &model.GetMyCardsRequest{ActiveOnly: true})
	require.NoError(t, err)
	require.Empty(t, cardsResp.Cards)

	customerResp, err := s.customerDomain.Get(shopCtx, &model.GetCustomerRequest{ID: testutil.Customer1.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), customerResp.Customer.IssuedCards)
	require.Equal(t, "150.00", customerResp.Customer.TotalPurchase)
}
