package service

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{"whole token 18 decimals", "2.0", 18, "2000000000000000000"},
		{"fractional 18 decimals", "0.8", 18, "800000000000000000"},
		{"8 decimals", "4.0", 8, "400000000"},
		{"rounds down", "1.23456789", 2, "123"},
		{"sub minor unit rounds to zero", "0.004", 2, "0"},
		{"zero decimals", "5.9", 0, "5"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tc.amount)
			want, _ := new(big.Int).SetString(tc.want, 10)
			got := ToMinorUnits(amount, tc.decimals)
			assert.Zero(t, want.Cmp(got), "got %s, want %s", got, want)
		})
	}
}
