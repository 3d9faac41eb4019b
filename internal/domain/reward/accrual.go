package reward

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Accrual converts cumulative spend into the number of cards a customer is
// entitled to.
type Accrual struct {
	threshold decimal.Decimal
}

func NewAccrual(spendPerCard decimal.Decimal) (*Accrual, error) {
	if !spendPerCard.IsPositive() {
		return nil, errors.New("spend per card must be positive")
	}

	return &Accrual{threshold: spendPerCard}, nil
}

func (a *Accrual) Threshold() decimal.Decimal {
	return a.threshold
}

// Entitled returns floor(total / threshold). A negative total entitles nothing.
func (a *Accrual) Entitled(total decimal.Decimal) int64 {
	if !total.IsPositive() {
		return 0
	}

	q, _ := total.QuoRem(a.threshold, 0)
	return q.IntPart()
}

// Owed returns how many new cards must be minted given the cards already
// issued. It never goes negative, even if more cards were issued than the
// customer is entitled to.
func (a *Accrual) Owed(total decimal.Decimal, issued int64) int64 {
	owed := a.Entitled(total) - issued
	if owed < 0 {
		return 0
	}

	return owed
}
