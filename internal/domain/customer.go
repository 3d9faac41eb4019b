package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type CustomerDomain interface {
	Register(context.Context, *model.RegisterCustomerRequest) (*model.RegisterCustomerResponse, error)
	Get(context.Context, *model.GetCustomerRequest) (*model.GetCustomerResponse, error)
	GetList(context.Context, *model.GetListCustomerRequest) (*model.GetListCustomerResponse, error)
}

type customerDomain struct {
	customerRepo         repository.CustomerRepository
	purchaseRepo         repository.PurchaseRepository
	shopCustomerVerifier *common.ShopCustomerVerifier
}

func NewCustomerDomain(
	customerRepo repository.CustomerRepository,
	purchaseRepo repository.PurchaseRepository,
	shopCustomerVerifier *common.ShopCustomerVerifier,
) *customerDomain {
	return &customerDomain{
		customerRepo:         customerRepo,
		purchaseRepo:         purchaseRepo,
		shopCustomerVerifier: shopCustomerVerifier,
	}
}

func (d *customerDomain) Register(
	ctx context.Context, req *model.RegisterCustomerRequest,
) (*model.RegisterCustomerResponse, error) {
	if err := common.VerifyRole(ctx, entity.ShopkeeperRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Only shopkeepers can register customers")
	}

	if err := checkCustomerName(req.Name); err != nil {
		return nil, err
	}

	if err := checkPhone(req.Phone); err != nil {
		return nil, err
	}

	shopID := xcontext.RequestUserID(ctx)
	_, err := d.customerRepo.GetByShopIDAndPhone(ctx, shopID, req.Phone)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The phone number has been registered")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get customer by phone: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot register customer")
	}

	customer := &entity.Customer{
		Base:   entity.Base{ID: idutil.NewUUID()},
		ShopID: shopID,
		Name:   strings.TrimSpace(req.Name),
		Phone:  req.Phone,
	}

	if err := d.customerRepo.Create(ctx, customer); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create customer: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot register customer")
	}

	return &model.RegisterCustomerResponse{Customer: model.ConvertCustomer(customer, nil)}, nil
}

func (d *customerDomain) Get(
	ctx context.Context, req *model.GetCustomerRequest,
) (*model.GetCustomerResponse, error) {
	customer, err := d.shopCustomerVerifier.Verify(ctx, req.ID)
	if err != nil {
		return nil, convertVerifyError(ctx, err)
	}

	total, err := d.purchaseRepo.SumAmountByCustomerID(ctx, customer.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum purchases: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get total purchase")
	}

	return &model.GetCustomerResponse{Customer: model.ConvertCustomer(customer, &total)}, nil
}

func (d *customerDomain) GetList(
	ctx context.Context, req *model.GetListCustomerRequest,
) (*model.GetListCustomerResponse, error) {
	if err := common.VerifyRole(ctx, entity.ShopkeeperRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	offset, limit, err := normalizePagination(ctx, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	customers, err := d.customerRepo.GetListByShopID(ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get customers: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get customers")
	}

	result := []model.Customer{}
	for i := range customers {
		result = append(result, model.ConvertCustomer(&customers[i], nil))
	}

	return &model.GetListCustomerResponse{Customers: result}, nil
}
