package domain

import (
	"context"
	"errors"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

type ScratchCardDomain interface {
	GetMyCards(context.Context, *model.GetMyCardsRequest) (*model.GetMyCardsResponse, error)
	GetList(context.Context, *model.GetListCardRequest) (*model.GetListCardResponse, error)
	Reveal(context.Context, *model.RevealCardRequest) (*model.RevealCardResponse, error)
	IssueCards(context.Context, *model.IssueCardsRequest) (*model.IssueCardsResponse, error)
	GetPrizeTable(context.Context, *model.GetPrizeTableRequest) (*model.GetPrizeTableResponse, error)
}

type scratchCardDomain struct {
	cardStore            *CardStore
	issuer               *Issuer
	accrual              *reward.Accrual
	prizeTable           *reward.PrizeTable
	shopCustomerVerifier *common.ShopCustomerVerifier
}

func NewScratchCardDomain(
	cardStore *CardStore,
	issuer *Issuer,
	accrual *reward.Accrual,
	prizeTable *reward.PrizeTable,
	shopCustomerVerifier *common.ShopCustomerVerifier,
) *scratchCardDomain {
	return &scratchCardDomain{
		cardStore:            cardStore,
		issuer:               issuer,
		accrual:              accrual,
		prizeTable:           prizeTable,
		shopCustomerVerifier: shopCustomerVerifier,
	}
}

func (d *scratchCardDomain) GetMyCards(
	ctx context.Context, req *model.GetMyCardsRequest,
) (*model.GetMyCardsResponse, error) {
	if err := common.VerifyRole(ctx, entity.CustomerRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only customers have cards")
	}

	cards, err := d.listCards(ctx, xcontext.RequestUserID(ctx), req.ActiveOnly)
	if err != nil {
		return nil, err
	}

	return &model.GetMyCardsResponse{Cards: cards}, nil
}

func (d *scratchCardDomain) GetList(
	ctx context.Context, req *model.GetListCardRequest,
) (*model.GetListCardResponse, error) {
	customer, err := d.shopCustomerVerifier.Verify(ctx, req.CustomerID)
	if err != nil {
		return nil, convertVerifyError(ctx, err)
	}

	cards, err := d.listCards(ctx, customer.ID, req.ActiveOnly)
	if err != nil {
		return nil, err
	}

	return &model.GetListCardResponse{Cards: cards}, nil
}

func (d *scratchCardDomain) Reveal(
	ctx context.Context, req *model.RevealCardRequest,
) (*model.RevealCardResponse, error) {
	if err := common.VerifyRole(ctx, entity.CustomerRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only customers can reveal cards")
	}

	if req.CardID == "" {
		return nil, errorx.New(errorx.BadRequest, "Card id is required")
	}

	card, err := d.cardStore.Scratch(ctx, req.CardID, xcontext.RequestUserID(ctx))
	if errors.Is(err, errorx.Error{Code: errorx.AlreadyScratched}) {
		common.PromCounters[common.CardRevealTotal].WithLabelValues(model.RevealStatusAlreadyScratched).Inc()

		// The prize was shown on the first reveal and is available in the
		// card list, it's not repeated here.
		result := model.ConvertScratchCard(card, d.cardStore.Now())
		result.Prize = nil
		return &model.RevealCardResponse{
			Status: model.RevealStatusAlreadyScratched,
			Card:   result,
		}, nil
	}

	if err != nil {
		return nil, err
	}

	common.PromCounters[common.CardRevealTotal].WithLabelValues(model.RevealStatusRevealed).Inc()
	return &model.RevealCardResponse{
		Status: model.RevealStatusRevealed,
		Card:   model.ConvertScratchCard(card, d.cardStore.Now()),
	}, nil
}

// IssueCards mints the cards a customer is still owed, e.g. after a previous
// issuance stopped halfway.
func (d *scratchCardDomain) IssueCards(
	ctx context.Context, req *model.IssueCardsRequest,
) (*model.IssueCardsResponse, error) {
	customer, err := d.shopCustomerVerifier.Verify(ctx, req.CustomerID)
	if err != nil {
		return nil, convertVerifyError(ctx, err)
	}

	minted, err := d.issuer.IssueCards(context.WithoutCancel(ctx), customer.ID)
	if err != nil {
		return &model.IssueCardsResponse{CardsMinted: minted}, err
	}

	return &model.IssueCardsResponse{CardsMinted: minted}, nil
}

func (d *scratchCardDomain) GetPrizeTable(
	ctx context.Context, req *model.GetPrizeTableRequest,
) (*model.GetPrizeTableResponse, error) {
	prizes := []model.Prize{}
	for _, p := range d.prizeTable.Prizes() {
		prizes = append(prizes, model.ConvertPrize(p))
	}

	return &model.GetPrizeTableResponse{
		SpendPerCard: d.accrual.Threshold().StringFixed(2),
		ExpiryWindow: d.cardStore.ExpiryWindow().String(),
		Prizes:       prizes,
	}, nil
}

func (d *scratchCardDomain) listCards(
	ctx context.Context, customerID string, activeOnly bool,
) ([]model.ScratchCard, error) {
	cards, err := d.cardStore.ListForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	now := d.cardStore.Now()
	result := []model.ScratchCard{}
	for i := range cards {
		card := &cards[i]
		if activeOnly && !reward.StateOf(card.IsScratched, card.ExpiresAt, now).Claimable() {
			continue
		}

		result = append(result, model.ConvertScratchCard(card, now))
	}

	return result, nil
}
