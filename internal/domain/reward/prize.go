package reward

import (
	"fmt"
	"math"

	"github.com/scratchcard-lab/backend/config"
	"github.com/scratchcard-lab/backend/internal/entity"
	"github.com/scratchcard-lab/backend/pkg/enum"
	"github.com/shopspring/decimal"
)

const weightTolerance = 1e-9

var hundred = decimal.NewFromInt(100)

type Prize struct {
	Kind   entity.PrizeKind
	Value  decimal.Decimal
	Weight float64
}

// RandomSource returns uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// PrizeTable is a weighted categorical distribution. Entries are kept in the
// configured order, which is also the tie-break order.
type PrizeTable struct {
	prizes     []Prize
	cumulative []float64
}

func NewPrizeTable(prizes []Prize) (*PrizeTable, error) {
	if len(prizes) == 0 {
		return nil, fmt.Errorf("prize table is empty")
	}

	table := &PrizeTable{
		prizes:     make([]Prize, 0, len(prizes)),
		cumulative: make([]float64, 0, len(prizes)),
	}

	sum := 0.0
	for i, p := range prizes {
		if _, err := enum.ToEnum[entity.PrizeKind](string(p.Kind)); err != nil {
			return nil, fmt.Errorf("prize %d: %w", i+1, err)
		}

		if p.Weight < 0 || math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) {
			return nil, fmt.Errorf("prize %d: invalid weight %v", i+1, p.Weight)
		}

		switch p.Kind {
		case entity.BetterLuck:
			p.Value = decimal.Zero
		case entity.PercentageDiscount:
			if !p.Value.IsPositive() || p.Value.GreaterThan(hundred) {
				return nil, fmt.Errorf("prize %d: percentage must be in (0, 100]", i+1)
			}
		case entity.AmountDiscount:
			if !p.Value.IsPositive() {
				return nil, fmt.Errorf("prize %d: amount must be positive", i+1)
			}
		}

		sum += p.Weight
		table.prizes = append(table.prizes, p)
		table.cumulative = append(table.cumulative, sum)
	}

	if math.Abs(sum-1) > weightTolerance {
		return nil, fmt.Errorf("prize weights sum to %v, expected 1", sum)
	}

	return table, nil
}

// NewPrizeTableFromConfigs builds the table from the [[reward.prizes]]
// entries of the configuration file.
func NewPrizeTableFromConfigs(cfgs []config.PrizeConfigs) (*PrizeTable, error) {
	prizes := make([]Prize, 0, len(cfgs))
	for _, cfg := range cfgs {
		prizes = append(prizes, Prize{
			Kind:   entity.PrizeKind(cfg.Kind),
			Value:  cfg.Value,
			Weight: cfg.Weight,
		})
	}

	return NewPrizeTable(prizes)
}

func (t *PrizeTable) Prizes() []Prize {
	return append([]Prize{}, t.prizes...)
}

// Pick maps r in [0, 1) to the first prize whose cumulative weight exceeds r.
func (t *PrizeTable) Pick(r float64) Prize {
	for i, c := range t.cumulative {
		if r < c && t.prizes[i].Weight > 0 {
			return t.prizes[i]
		}
	}

	// Weights may sum to slightly less than 1 due to float rounding.
	for i := len(t.prizes) - 1; i >= 0; i-- {
		if t.prizes[i].Weight > 0 {
			return t.prizes[i]
		}
	}

	return t.prizes[len(t.prizes)-1]
}

// Drawer draws independent prizes from a table.
type Drawer struct {
	table  *PrizeTable
	source RandomSource
}

func NewDrawer(table *PrizeTable, source RandomSource) *Drawer {
	return &Drawer{table: table, source: source}
}

func (d *Drawer) Draw() Prize {
	return d.table.Pick(d.source.Float64())
}

func (d *Drawer) Table() *PrizeTable {
	return d.table
}
