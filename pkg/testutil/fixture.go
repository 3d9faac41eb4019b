package testutil

import (
	"context"

	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
)

var (
	Shop1 = "shop1"
	Shop2 = "shop2"

	Customer1 = &entity.Customer{
		Base:   entity.Base{ID: "customer1"},
		ShopID: Shop1,
		Name:   "Customer 1",
		Phone:  "+10000000001",
	}

	Customer2 = &entity.Customer{
		Base:   entity.Base{ID: "customer2"},
		ShopID: Shop1,
		Name:   "Customer 2",
		Phone:  "+10000000002",
	}

	Customer3 = &entity.Customer{
		Base:   entity.Base{ID: "customer3"},
		ShopID: Shop2,
		Name:   "Customer 3",
		Phone:  "+10000000003",
	}

	Customers = []*entity.Customer{Customer1, Customer2, Customer3}
)

// CreateFixtureContext returns a MockContext whose database already has the
// fixture customers.
func CreateFixtureContext() context.Context {
	ctx := MockContext()
	InsertCustomers(ctx)
	return ctx
}

func InsertCustomers(ctx context.Context) {
	for _, customer := range Customers {
		c := *customer
		if err := xcontext.DB(ctx).Create(&c).Error; err != nil {
			panic(err)
		}
	}
}
