package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/scratchcard-lab/backend/internal/domain/reward"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/internal/repository"
	"github.com/scratchcard-lab/backend/pkg/clock"
	"github.com/scratchcard-lab/backend/pkg/errorx"
	"github.com/scratchcard-lab/backend/pkg/idutil"
	"github.com/scratchcard-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// CardStore owns the lifecycle of scratch cards: a card is minted unscratched,
// scratched exactly once, and expires ExpiryWindow after it was scratched.
type CardStore struct {
	cardRepo     repository.ScratchCardRepository
	customerRepo repository.CustomerRepository
	clock        clock.Clock
	expiryWindow time.Duration
}

func NewCardStore(
	cardRepo repository.ScratchCardRepository,
	customerRepo repository.CustomerRepository,
	clock clock.Clock,
	expiryWindow time.Duration,
) *CardStore {
	return &CardStore{
		cardRepo:     cardRepo,
		customerRepo: customerRepo,
		clock:        clock,
		expiryWindow: expiryWindow,
	}
}

func (s *CardStore) Now() time.Time {
	return s.clock.Now()
}

func (s *CardStore) ExpiryWindow() time.Duration {
	return s.expiryWindow
}

func (s *CardStore) Mint(ctx context.Context, customerID string, prize reward.Prize) (*entity.ScratchCard, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found customer")
		}

		xcontext.Logger(ctx).Errorf("Cannot get customer: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get customer")
	}

	now := s.clock.Now()
	card := &entity.ScratchCard{
		Base:       entity.Base{ID: idutil.NewUUID(), CreatedAt: now, UpdatedAt: now},
		CustomerID: customerID,
		PrizeKind:  prize.Kind,
		PrizeValue: prize.Value,
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create scratch card: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot create scratch card")
	}

	return card, nil
}

// Scratch reveals the card for its owner. If the card has been scratched
// before, the stored card is returned together with an AlreadyScratched error.
func (s *CardStore) Scratch(ctx context.Context, cardID, customerID string) (*entity.ScratchCard, error) {
	card, err := s.getCard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	if card.CustomerID != customerID {
		return nil, errorx.New(errorx.PermissionDenied, "The card belongs to another customer")
	}

	if card.IsScratched {
		return card, errorx.New(errorx.AlreadyScratched, "The card has been scratched")
	}

	scratchedAt := s.clock.Now()
	expiresAt := scratchedAt.Add(s.expiryWindow)
	if err := s.cardRepo.CheckAndScratch(ctx, card.ID, scratchedAt, expiresAt); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot scratch card: %v", err)
			return nil, errorx.New(errorx.Unavailable, "Cannot scratch card")
		}

		// Another request scratched the card after it was read.
		card, err := s.getCard(ctx, cardID)
		if err != nil {
			return nil, err
		}

		return card, errorx.New(errorx.AlreadyScratched, "The card has been scratched")
	}

	card.IsScratched = true
	card.ScratchedAt = sql.NullTime{Time: scratchedAt, Valid: true}
	card.ExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	return card, nil
}

// ListForCustomer returns the cards of the customer, newest first.
func (s *CardStore) ListForCustomer(ctx context.Context, customerID string) ([]entity.ScratchCard, error) {
	cards, err := s.cardRepo.GetListByCustomerID(ctx, customerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get scratch cards: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get scratch cards")
	}

	return cards, nil
}

func (s *CardStore) getCard(ctx context.Context, cardID string) (*entity.ScratchCard, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found card")
		}

		xcontext.Logger(ctx).Errorf("Cannot get scratch card: %v", err)
		return nil, errorx.New(errorx.Unavailable, "Cannot get scratch card")
	}

	return card, nil
}
