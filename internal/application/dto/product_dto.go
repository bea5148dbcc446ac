package dto

import (
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products. Price en unidades menores.
type CreateProductRequest struct {
	ID               string `json:"id,omitempty" validate:"omitempty,uuid"`
	Name             string `json:"name" validate:"required,max=120"`
	CategoryID       string `json:"category_id" validate:"required,uuid"`
	SupplierID       string `json:"supplier_id" validate:"required,uuid"`
	StateID          string `json:"state_id" validate:"required,uuid"`
	Price            int64  `json:"price" validate:"min=0,max=1000000000"`
	LocationID       string `json:"location_id" validate:"required,uuid"`
	InitialAvailable int64  `json:"initial_available" validate:"min=0,max=1000000000"`
	Minimum          int64  `json:"minimum" validate:"min=0,max=1000000000"`
	Maximum          int64  `json:"maximum" validate:"min=0,max=1000000000,gtefield=Minimum"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	CategoryID      string `json:"category_id" validate:"required,uuid"`
	SupplierID      string `json:"supplier_id" validate:"required,uuid"`
	StateID         string `json:"state_id" validate:"required,uuid"`
	Price           int64  `json:"price" validate:"min=0,max=1000000000"`
	UpdatePrice     bool   `json:"update_price"`
	LocationID      string `json:"location_id" validate:"required,uuid"`
	Minimum         *int64 `json:"minimum,omitempty" validate:"omitempty,min=0,max=1000000000"`
	Maximum         *int64 `json:"maximum,omitempty" validate:"omitempty,min=0,max=1000000000"`
	InitialQuantity *int64 `json:"initial_quantity,omitempty" validate:"omitempty,min=0,max=1000000000"`
	Comment         string `json:"comment,omitempty" validate:"max=500"`
}

// ProductResponse producto con su precio vigente.
type ProductResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	CategoryID     string     `json:"category_id"`
	CategoryName   string     `json:"category_name,omitempty"`
	SupplierID     string     `json:"supplier_id"`
	StateID        string     `json:"state_id"`
	PriceEntryID   string     `json:"price_entry_id,omitempty"`
	Price          *Money     `json:"price"`
	PriceUpdatedAt *time.Time `json:"price_updated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FromProductPriceView convierte la vista de dominio.
func FromProductPriceView(v entity.ProductPriceView) ProductResponse {
	return ProductResponse{
		ID:             v.ID,
		Name:           v.Name,
		CategoryID:     v.CategoryID,
		CategoryName:   v.CategoryName,
		SupplierID:     v.SupplierID,
		StateID:        v.StateID,
		PriceEntryID:   v.PriceEntryID,
		Price:          MoneyPtr(v.Price),
		PriceUpdatedAt: v.PriceUpdatedAt,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// PriceEntryResponse entrada del historial de precios.
type PriceEntryResponse struct {
	ID           string    `json:"id"`
	Seq          int64     `json:"seq"`
	Price        Money     `json:"price"`
	RegisteredAt time.Time `json:"registered_at"`
}

// FromPriceEntries convierte el historial.
func FromPriceEntries(list []*entity.PriceEntry) []PriceEntryResponse {
	out := make([]PriceEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, PriceEntryResponse{ID: e.ID, Seq: e.Seq, Price: NewMoney(e.Price), RegisteredAt: e.RegisteredAt})
	}
	return out
}
