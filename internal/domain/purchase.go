package domain

import (
	"context"
	"strconv"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/clock"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
)

var maxPurchaseAmount = decimal.New(1, 12)

type PurchaseDomain interface {
	Record(context.Context, *model.RecordPurchaseRequest) (*model.RecordPurchaseResponse, error)
	GetList(context.Context, *model.GetListPurchaseRequest) (*model.GetListPurchaseResponse, error)
}

type purchaseDomain struct {
	purchaseRepo         repository.PurchaseRepository
	shopCustomerVerifier *common.ShopCustomerVerifier
	issuer               *Issuer
	clock                clock.Clock
}

func NewPurchaseDomain(
	purchaseRepo repository.PurchaseRepository,
	shopCustomerVerifier *common.ShopCustomerVerifier,
	issuer *Issuer,
	clock clock.Clock,
) *purchaseDomain {
	return &purchaseDomain{
		purchaseRepo:         purchaseRepo,
		shopCustomerVerifier: shopCustomerVerifier,
		issuer:               issuer,
		clock:                clock,
	}
}

// Record appends the purchase to the ledger, then issues the cards the
// customer is owed. The purchase stays recorded even if the issuance fails,
// the issueCards API resumes it.
func (d *purchaseDomain) Record(
	ctx context.Context, req *model.RecordPurchaseRequest,
) (*model.RecordPurchaseResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	if !req.Amount.Equal(req.Amount.Truncate(2)) {
		return nil, errorx.New(errorx.BadRequest, "Amount must have at most 2 decimal places")
	}

	if req.Amount.GreaterThanOrEqual(maxPurchaseAmount) {
		return nil, errorx.New(errorx.BadRequest, "Amount is too large")
	}

	customer, err := d.shopCustomerVerifier.Verify(ctx, req.CustomerID)
	if err != nil {
		return nil, convertVerifyError(ctx, err)
	}

	purchase := &entity.Purchase{
		SnowFlakeBase: entity.SnowFlakeBase{ID: idutil.NextSnowflake(), CreatedAt: d.clock.Now()},
		CustomerID:    customer.ID,
		Amount:        req.Amount,
		RecordedBy:    xcontext.RequestUserID(ctx),
	}

	if err := d.purchaseRepo.Create(ctx, purchase); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create purchase: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot record purchase")
	}

	// The purchase is committed, the issuance must not be interrupted by the
	// client closing the connection.
	minted, err := d.issuer.IssueCards(context.WithoutCancel(ctx), customer.ID)
	resp := &model.RecordPurchaseResponse{
		PurchaseID:  strconv.FormatInt(purchase.ID, 10),
		CardsMinted: minted,
	}
	if err != nil {
		// The caller still needs the purchase id to avoid recording it twice.
		xcontext.Logger(ctx).Warnf("Cannot issue cards for purchase %d: %v", purchase.ID, err)
		return resp, err
	}

	return resp, nil
}

func (d *purchaseDomain) GetList(
	ctx context.Context, req *model.GetListPurchaseRequest,
) (*model.GetListPurchaseResponse, error) {
	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	customer, err := d.shopCustomerVerifier.Verify(ctx, req.CustomerID)
	if err != nil {
		return nil, convertVerifyError(ctx, err)
	}

	purchases, err := d.purchaseRepo.GetListByCustomerID(ctx, customer.ID, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get purchases: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get purchases")
	}

	total, err := d.purchaseRepo.SumAmountByCustomerID(ctx, customer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum purchases: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get total purchase")
	}

	result := []model.Purchase{}
	for i := range purchases {
		result = append(result, model.ConvertPurchase(&purchases[i]))
	}

	return &model.GetListPurchaseResponse{
		Purchases:     result,
		TotalPurchase: total.StringFixed(2),
	}, nil
}
