package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckedMul(t *testing.T) {
	cases := []struct {
		name string
		a, b int64
		want int64
		ok   bool
	}{
		{"normal", 250, 4, 1000, true},
		{"cero", 0, math.MaxInt64, 0, true},
		{"cotas de la API", MaxPrice, MaxQuantity, MaxPrice * MaxQuantity, true},
		{"2^62 por 4", 1 << 62, 4, 0, false},
		{"máximo por 2", math.MaxInt64, 2, 0, false},
		{"mínimo por -1", math.MinInt64, -1, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := CheckedMul(tc.a, tc.b)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCheckedAdd(t *testing.T) {
	got, ok := CheckedAdd(1, 9)
	assert.True(t, ok)
	assert.Equal(t, int64(10), got)

	_, ok = CheckedAdd(1, math.MaxInt64)
	assert.False(t, ok)

	_, ok = CheckedAdd(math.MinInt64, -1)
	assert.False(t, ok)

	got, ok = CheckedAdd(5, -5)
	assert.True(t, ok)
	assert.Zero(t, got)
}
