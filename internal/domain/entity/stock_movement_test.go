package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMovementType_Delta(t *testing.T) {
	assert.Equal(t, int64(5), MovementCreation.Delta(5))
	assert.Equal(t, int64(5), MovementPurchase.Delta(5))
	assert.Equal(t, int64(5), MovementInbound.Delta(5))
	assert.Equal(t, int64(-5), MovementSale.Delta(5))
	assert.Equal(t, int64(-5), MovementOutbound.Delta(5))
	assert.Equal(t, int64(0), MovementEdit.Delta(5))
}

func TestParseMovementType(t *testing.T) {
	mt, ok := ParseMovementType("SALE")
	assert.True(t, ok)
	assert.Equal(t, MovementSale, mt)

	_, ok = ParseMovementType("VENTA")
	assert.False(t, ok)
	_, ok = ParseMovementType("sale")
	assert.False(t, ok)
}

func TestCorrelationKey(t *testing.T) {
	assert.Equal(t, "SALE-a1b2c3d4", CorrelationKey(MovementSale, "a1b2c3d4-e5f6-7890-abcd-ef0123456789"))
	assert.Equal(t, "EDIT-abc", CorrelationKey(MovementEdit, "abc"))
}

func TestPriceEntry_Newer(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := PriceEntry{Seq: 1, RegisteredAt: t0}
	b := PriceEntry{Seq: 2, RegisteredAt: t0}
	c := PriceEntry{Seq: 0, RegisteredAt: t0.Add(time.Second)}

	assert.True(t, b.Newer(a), "mismo instante: gana la secuencia mayor")
	assert.False(t, a.Newer(b))
	assert.True(t, c.Newer(b))
}

func TestMoneyFromMinor(t *testing.T) {
	assert.Equal(t, "12.50", MoneyFromMinor(1250).StringFixed(2))
}
