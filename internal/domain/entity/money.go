package entity

import (
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitsExp exponente de las unidades menores (2 = centavos).
const MinorUnitsExp = -2

// Cotas de entrada aceptadas por la API. Con ellas precio × cantidad cabe en int64.
const (
	MaxQuantity = 1_000_000_000
	MaxPrice    = 1_000_000_000
)

// MoneyFromMinor convierte unidades menores a decimal en unidades mayores.
func MoneyFromMinor(v int64) decimal.Decimal {
	return decimal.New(v, MinorUnitsExp)
}

// CheckedMul devuelve a*b y false si el producto desborda int64.
func CheckedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// CheckedAdd devuelve a+b y false si la suma desborda int64.
func CheckedAdd(a, b int64) (int64, bool) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, false
	}
	return c, true
}
