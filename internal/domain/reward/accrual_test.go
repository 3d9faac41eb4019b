package reward

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAccrual_Owed(t *testing.T) {
	accrual, err := NewAccrual(decimal.NewFromInt(150))
	require.NoError(t, err)

	testCases := []struct {
		name   string
		total  string
		issued int64
		want   int64
	}{
		{name: "exactly three thresholds", total: "450", issued: 0, want: 3},
		{name: "just below three thresholds", total: "449", issued: 0, want: 2},
		{name: "one threshold with cents", total: "150.00", issued: 0, want: 1},
		{name: "below the first threshold", total: "149.99", issued: 0, want: 0},
		{name: "nothing purchased", total: "0", issued: 0, want: 0},
		{name: "already issued some", total: "600", issued: 3, want: 1},
		{name: "already issued all", total: "450", issued: 3, want: 0},
		{name: "issued more than entitled", total: "150", issued: 5, want: 0},
		{name: "negative total", total: "-300", issued: 0, want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := accrual.Owed(decimal.RequireFromString(tc.total), tc.issued)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestAccrual_Idempotent(t *testing.T) {
	accrual, err := NewAccrual(decimal.NewFromInt(150))
	require.NoError(t, err)

	total := decimal.RequireFromString("1000")
	owed := accrual.Owed(total, 0)
	require.Equal(t, int64(6), owed)
	require.Zero(t, accrual.Owed(total, owed))
}

func TestNewAccrual_InvalidThreshold(t *testing.T) {
	_, err := NewAccrual(decimal.Zero)
	require.Error(t, err)

	_, err = NewAccrual(decimal.NewFromInt(-1))
	require.Error(t, err)
}
