package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 1, hour, min, 0, 0, time.UTC)
}

func TestHours(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected string
	}{
		{"Whole hours", at(10, 0), at(12, 0), "2"},
		{"Fractional hours", at(10, 0), at(12, 30), "2.5"},
		{"Quarter hour", at(10, 0), at(10, 15), "0.25"},
		{"Zero span", at(10, 0), at(10, 0), "0"},
		{"Clock skew clamps to zero", at(12, 0), at(10, 0), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hours(tt.start, tt.end)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestRentalTotal(t *testing.T) {
	rate := decimal.NewFromInt(20)

	t.Run("Estimated window", func(t *testing.T) {
		total := RentalTotal(rate, at(10, 0), at(12, 0))
		assert.True(t, total.Equal(decimal.NewFromInt(40)), "got %s", total)
	})

	t.Run("Fractional completion", func(t *testing.T) {
		total := RentalTotal(rate, at(10, 0), at(12, 30))
		assert.True(t, total.Equal(decimal.NewFromInt(50)), "got %s", total)
	})

	t.Run("Never negative", func(t *testing.T) {
		total := RentalTotal(rate, at(12, 0), at(10, 0))
		assert.True(t, total.IsZero(), "got %s", total)
	})
}

func TestDeposit(t *testing.T) {
	deposit := Deposit(decimal.NewFromInt(1000), decimal.RequireFromString("0.10"))
	assert.True(t, deposit.Equal(decimal.NewFromInt(100)), "got %s", deposit)
}

func TestSplit(t *testing.T) {
	rate := decimal.RequireFromString("0.10")

	tests := []struct {
		total      string
		commission string
		net        string
	}{
		{"50", "5", "45"},
		{"100", "10", "90"},
		{"0", "0", "0"},
		{"0.01", "0", "0.01"},
		{"33.35", "3.34", "30.01"},
	}

	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)
			commission, net := Split(total, rate)
			assert.True(t, commission.Equal(decimal.RequireFromString(tt.commission)),
				"commission: expected %s, got %s", tt.commission, commission)
			assert.True(t, net.Equal(decimal.RequireFromString(tt.net)),
				"net: expected %s, got %s", tt.net, net)
			// The split must always sum back to the full total.
			assert.True(t, commission.Add(net).Equal(total))
		})
	}
}
