package common

import (
	"context"
	"errors"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
)

var (
	ErrRoleNotAllowed  = errors.New("user role does not have permission")
	ErrNotShopCustomer = errors.New("customer does not belong to this shop")
)

// VerifyRole checks the role of the requesting user which is written to the
// context by the auth middleware.
func VerifyRole(ctx context.Context, requiredRoles ...entity.Role) error {
	role := entity.Role(xcontext.RequestUserRole(ctx))
	if !slices.Contains(requiredRoles, role) {
		return ErrRoleNotAllowed
	}

	return nil
}

type ShopCustomerVerifier struct {
	customerRepo repository.CustomerRepository
}

func NewShopCustomerVerifier(customerRepo repository.CustomerRepository) *ShopCustomerVerifier {
	return &ShopCustomerVerifier{customerRepo: customerRepo}
}

// Verify returns the customer if the requesting shopkeeper registered it. The
// gorm.ErrRecordNotFound error is returned as-is so callers can map it.
func (verifier *ShopCustomerVerifier) Verify(ctx context.Context, customerID string) (*entity.Customer, error) {
	if err := VerifyRole(ctx, entity.ShopkeeperRole); err != nil {
		return nil, err
	}

	customer, err := verifier.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if customer.ShopID != xcontext.RequestUserID(ctx) {
		return nil, ErrNotShopCustomer
	}

	return customer, nil
}
