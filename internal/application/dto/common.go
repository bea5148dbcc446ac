package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// IDResponse respuesta de creación.
type IDResponse struct {
	ID string `json:"id"`
}

// Money importe expresado en unidades menores y en unidades mayores.
type Money struct {
	Minor  int64           `json:"minor"`
	Amount decimal.Decimal `json:"amount"`
}

// NewMoney construye Money desde unidades menores.
func NewMoney(minor int64) Money {
	return Money{Minor: minor, Amount: entity.MoneyFromMinor(minor)}
}

// MoneyPtr convierte un importe opcional; nil si no hay precio.
func MoneyPtr(minor *int64) *Money {
	if minor == nil {
		return nil
	}
	m := NewMoney(*minor)
	return &m
}
