package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID      string                  `json:"customer_id" validate:"required,uuid"`
	PaymentMethodID string                  `json:"payment_method_id" validate:"required,uuid"`
	Lines           []CreateSaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateSaleLineRequest línea de la venta.
type CreateSaleLineRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0,max=1000000000"`
}

// SaleCreatedResponse respuesta de POST /api/sales.
type SaleCreatedResponse struct {
	ID        string    `json:"id"`
	Total     Money     `json:"total"`
	OrderedAt time.Time `json:"ordered_at"`
}

// SaleLineResponse línea del detalle de venta.
type SaleLineResponse struct {
	LineID            string `json:"line_id"`
	LineNo            int    `json:"line_no"`
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	PriceEntryID      string `json:"price_entry_id"`
	UnitPrice         Money  `json:"unit_price"`
	Quantity          int64  `json:"quantity"`
	Subtotal          Money  `json:"subtotal"`
	PaymentMethodID   string `json:"payment_method_id"`
	PaymentMethodName string `json:"payment_method_name,omitempty"`
}

// FromSaleLineViews convierte el detalle.
func FromSaleLineViews(list []entity.SaleLineView) []SaleLineResponse {
	out := make([]SaleLineResponse, 0, len(list))
	for _, v := range list {
		out = append(out, SaleLineResponse{
			LineID:            v.LineID,
			LineNo:            v.LineNo,
			ProductID:         v.ProductID,
			ProductName:       v.ProductName,
			PriceEntryID:      v.PriceEntryID,
			UnitPrice:         NewMoney(v.UnitPrice),
			Quantity:          v.Quantity,
			Subtotal:          NewMoney(v.Subtotal),
			PaymentMethodID:   v.PaymentMethodID,
			PaymentMethodName: v.PaymentMethodName,
		})
	}
	return out
}
