package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync"
	"github.com/scratchcard-lab/backend/internal/common"
	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/model"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/pubsub"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PartialIssuanceError is returned when an issuance run stopped after some
// cards were minted. Running the issuance again mints the rest.
type PartialIssuanceError struct {
	Minted int
	Owed   int
	Err    error
}

func (e *PartialIssuanceError) Error() string {
	return fmt.Sprintf("issued %d of %d cards: %v", e.Minted, e.Owed, e.Err)
}

func (e *PartialIssuanceError) Unwrap() []error {
	return []error{
		errorx.New(errorx.PartialIssuance, "Issued %d of %d cards, please retry later", e.Minted, e.Owed),
		e.Err,
	}
}

var errIssuedCardsChanged = errors.New("issued cards counter has changed")

// Issuer mints the cards a customer is owed. Runs for the same customer in
// this process are serialized by a per-customer lock. Runs in other processes
// are guarded by the compare-and-set on customers.issued_cards.
type Issuer struct {
	customerRepo repository.CustomerRepository
	purchaseRepo repository.PurchaseRepository
	cardStore    *CardStore
	accrual      *reward.Accrual
	drawer       *reward.Drawer
	publisher    pubsub.Publisher

	locks *xsync.MapOf[string, *customerLock]
}

// customerLock counts its holders and waiters, the last one to release it
// removes it from the lock table.
type customerLock struct {
	sync.Mutex
	refs atomic.Int32
}

func NewIssuer(
	customerRepo repository.CustomerRepository,
	purchaseRepo repository.PurchaseRepository,
	cardStore *CardStore,
	accrual *reward.Accrual,
	drawer *reward.Drawer,
	publisher pubsub.Publisher,
) *Issuer {
	return &Issuer{
		customerRepo: customerRepo,
		purchaseRepo: purchaseRepo,
		cardStore:    cardStore,
		accrual:      accrual,
		drawer:       drawer,
		publisher:    publisher,
		locks:        xsync.NewMapOf[*customerLock](),
	}
}

func (i *Issuer) lock(customerID string) *customerLock {
	for {
		l, _ := i.locks.LoadOrStore(customerID, &customerLock{})
		l.refs.Add(1)

		// The entry may have been removed between LoadOrStore and Add.
		if current, ok := i.locks.Load(customerID); ok && current == l {
			l.Lock()
			return l
		}

		l.refs.Add(-1)
	}
}

func (i *Issuer) unlock(customerID string, l *customerLock) {
	l.Unlock()
	if l.refs.Add(-1) == 0 {
		// A run that took l right before this delete keeps using it while later
		// runs get a new entry, so two runs may overlap. The compare-and-set on
		// issued_cards keeps the counter exact.
		i.locks.Delete(customerID)
	}
}

// IssueCards mints every card the customer is owed and returns the number of
// cards minted by this call.
func (i *Issuer) IssueCards(ctx context.Context, customerID string) (int, error) {
	l := i.lock(customerID)
	defer i.unlock(customerID, l)

	minted := 0
	// owed of the last successful read, reported if a later read fails.
	knownOwed := 0
	var lastCustomer *entity.Customer
	var lastTotal decimal.Decimal
	defer func() {
		i.notify(ctx, lastCustomer, minted, lastTotal)
	}()

	for {
		customer, total, owed, err := i.computeOwed(ctx, customerID)
		if err != nil {
			return minted, i.fail(ctx, minted, knownOwed, err)
		}

		lastCustomer, lastTotal = customer, total
		knownOwed = minted + int(owed)
		if owed == 0 {
			return minted, nil
		}

		expected := customer.IssuedCards
		for ; owed > 0; owed-- {
			if err := ctx.Err(); err != nil {
				return minted, i.fail(ctx, minted, minted+int(owed), err)
			}

			err := i.mintOne(ctx, customerID, expected, i.drawer.Draw())
			if errors.Is(err, errIssuedCardsChanged) {
				// Another issuer has minted cards, recompute what is owed.
				break
			}

			if err != nil {
				return minted, i.fail(ctx, minted, minted+int(owed), err)
			}

			minted++
			expected++
		}
	}
}

func (i *Issuer) computeOwed(
	ctx context.Context, customerID string,
) (*entity.Customer, decimal.Decimal, int64, error) {
	customer, err := i.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, 0, errorx.New(errorx.NotFound, "Not found customer")
		}

		xcontext.Logger(ctx).Errorf("Cannot get customer: %v", err)
		return nil, decimal.Zero, 0, errorx.New(errorx.Unavailable, "Cannot get customer")
	}

	total, err := i.purchaseRepo.SumAmountByCustomerID(ctx, customerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum purchases: %v", err)
		return nil, decimal.Zero, 0, errorx.New(errorx.Unavailable, "Cannot get total purchase")
	}

	return customer, total, i.accrual.Owed(total, customer.IssuedCards), nil
}

// mintOne increases the issued counter from expected and inserts the card in
// the same transaction, so the counter always equals the number of cards.
func (i *Issuer) mintOne(ctx context.Context, customerID string, expected int64, prize reward.Prize) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer func() {
		ctx = xcontext.WithRollbackDBTransaction(ctx)
	}()

	if err := i.customerRepo.CheckAndIncreaseIssuedCards(ctx, customerID, expected); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errIssuedCardsChanged
		}

		xcontext.Logger(ctx).Errorf("Cannot increase issued cards: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot issue card")
	}

	if _, err := i.cardStore.Mint(ctx, customerID, prize); err != nil {
		return err
	}

	ctx, err := xcontext.WithCommitDBTransaction(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit card issuance: %v", err)
		return errorx.New(errorx.Unavailable, "Cannot issue card")
	}

	common.PromCounters[common.CardsMintedTotal].WithLabelValues(string(prize.Kind)).Inc()
	return nil
}

func (i *Issuer) fail(ctx context.Context, minted, owed int, err error) error {
	if minted == 0 {
		common.PromCounters[common.IssuanceFailureTotal].WithLabelValues("false").Inc()
		return err
	}

	common.PromCounters[common.IssuanceFailureTotal].WithLabelValues("true").Inc()
	xcontext.Logger(ctx).Warnf("Issuance stopped after %d of %d cards: %v", minted, owed, err)
	return &PartialIssuanceError{Minted: minted, Owed: owed, Err: err}
}

// notify publishes the cards minted event in background. The event is best
// effort, a failure is only logged.
func (i *Issuer) notify(ctx context.Context, customer *entity.Customer, minted int, total decimal.Decimal) {
	if minted == 0 || customer == nil || i.publisher == nil {
		return
	}

	event := model.CardsMintedEvent{
		EventID:       idutil.NewUUID(),
		CustomerID:    customer.ID,
		ShopID:        customer.ShopID,
		Phone:         customer.Phone,
		Name:          customer.Name,
		CardsMinted:   minted,
		TotalPurchase: total.StringFixed(2),
	}

	ctx = context.WithoutCancel(ctx)
	go func() {
		b, err := json.Marshal(event)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot marshal cards minted event: %v", err)
			return
		}

		err = i.publisher.Publish(ctx, model.CardsMintedTopic, &pubsub.Pack{
			Key: []byte(customer.ID),
			Msg: b,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot publish cards minted event %s: %v", event.EventID, err)
			return
		}

		xcontext.Logger(ctx).Debugf("Published cards minted event %s, cards=%d", event.EventID, minted)
	}()
}
