package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
type RegisterMovementRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	LocationID string `json:"location_id" validate:"required,uuid"`
	Type       string `json:"type" validate:"required,oneof=CREATION PURCHASE INBOUND SALE OUTBOUND EDIT"`
	Quantity   int64  `json:"quantity" validate:"min=0,max=1000000000"`
	Comment    string `json:"comment,omitempty" validate:"max=500"`
}

// MovementResponse fila del libro.
type MovementResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id,omitempty"`
	LocationID      string    `json:"location_id"`
	LocationName    string    `json:"location_name,omitempty"`
	LocationAddress string    `json:"location_address,omitempty"`
	Type            string    `json:"type"`
	Quantity        int64     `json:"quantity"`
	OccurredAt      time.Time `json:"occurred_at"`
	ActorID         string    `json:"actor_id"`
	ActorName       string    `json:"actor_name,omitempty"`
	CorrelationKey  string    `json:"correlation_key"`
	Comment         string    `json:"comment,omitempty"`
}

// FromMovement convierte un movimiento recién registrado.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		LocationID:     m.LocationID,
		Type:           string(m.Type),
		Quantity:       m.Quantity,
		OccurredAt:     m.OccurredAt,
		ActorID:        m.ActorID,
		CorrelationKey: m.CorrelationKey,
		Comment:        m.Comment,
	}
}

// FromMovementViews convierte el historial.
func FromMovementViews(list []entity.MovementView) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, v := range list {
		out = append(out, MovementResponse{
			ID:              v.ID,
			LocationID:      v.LocationID,
			LocationName:    v.LocationName,
			LocationAddress: v.LocationAddress,
			Type:            string(v.Type),
			Quantity:        v.Quantity,
			OccurredAt:      v.OccurredAt,
			ActorID:         v.ActorID,
			ActorName:       v.ActorName,
			CorrelationKey:  v.CorrelationKey,
			Comment:         v.Comment,
		})
	}
	return out
}

// InventoryItemResponse fila del listado de inventario.
type InventoryItemResponse struct {
	InventoryID     string          `json:"inventory_id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	LocationID      string          `json:"location_id"`
	LocationName    string          `json:"location_name"`
	LocationAddress string          `json:"location_address,omitempty"`
	Available       int64           `json:"available"`
	Minimum         int64           `json:"minimum"`
	Maximum         int64           `json:"maximum"`
	BelowMinimum    bool            `json:"below_minimum"`
	Price           *Money          `json:"price"`
	PriceUpdatedAt  *time.Time      `json:"price_updated_at,omitempty"`
	StockValue      decimal.Decimal `json:"stock_value"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// FromInventoryViews convierte el listado.
func FromInventoryViews(list []entity.InventoryView) []InventoryItemResponse {
	out := make([]InventoryItemResponse, 0, len(list))
	for _, v := range list {
		out = append(out, InventoryItemResponse{
			InventoryID:     v.InventoryID,
			ProductID:       v.ProductID,
			ProductName:     v.ProductName,
			LocationID:      v.LocationID,
			LocationName:    v.LocationName,
			LocationAddress: v.LocationAddress,
			Available:       v.Available,
			Minimum:         v.Minimum,
			Maximum:         v.Maximum,
			BelowMinimum:    v.Available < v.Minimum,
			Price:           MoneyPtr(v.Price),
			PriceUpdatedAt:  v.PriceUpdatedAt,
			StockValue:      v.StockValue,
			UpdatedAt:       v.UpdatedAt,
		})
	}
	return out
}

// AvailabilityResponse respuesta de GET /api/inventory/products/:id/availability.
type AvailabilityResponse struct {
	ProductID  string                  `json:"product_id"`
	Requested  int64                   `json:"requested"`
	Total      int64                   `json:"total"`
	Sufficient bool                    `json:"sufficient"`
	Locations  []LocationStockResponse `json:"locations"`
}

// LocationStockResponse disponible en una ubicación.
type LocationStockResponse struct {
	LocationID string `json:"location_id"`
	Available  int64  `json:"available"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un registro bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	LocationID     string          `json:"location_id"`
	LocationName   string          `json:"location_name"`
	Available      int64           `json:"available"`
	Minimum        int64           `json:"minimum"`
	Maximum        int64           `json:"maximum"`
	Deficit        int64           `json:"deficit"`       // Minimum - Available
	SuggestedQty   int64           `json:"suggested_qty"` // Maximum - Available
	UnitPrice      *Money          `json:"unit_price"`
	EstimatedValue decimal.Decimal `json:"estimated_value"` // SuggestedQty × precio vigente
	Priority       int             `json:"priority"`        // 1 = más urgente
}

// LedgerBalanceResponse diferencia entre proyección y libro.
type LedgerBalanceResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Available  int64  `json:"available"`
	LedgerSum  int64  `json:"ledger_sum"`
	Movements  int64  `json:"movements"`
}

// ReconcileResponse resultado de GET /api/inventory/reconcile.
type ReconcileResponse struct {
	Checked    int                     `json:"checked"`
	Consistent bool                    `json:"consistent"`
	Mismatches []LedgerBalanceResponse `json:"mismatches"`
}

// FromLedgerBalances arma la respuesta de conciliación.
func FromLedgerBalances(checked int, mismatches []entity.LedgerBalance) ReconcileResponse {
	out := ReconcileResponse{Checked: checked, Consistent: len(mismatches) == 0, Mismatches: make([]LedgerBalanceResponse, 0, len(mismatches))}
	for _, b := range mismatches {
		out.Mismatches = append(out.Mismatches, LedgerBalanceResponse{
			ProductID: b.ProductID, LocationID: b.LocationID,
			Available: b.Available, LedgerSum: b.LedgerSum, Movements: b.Movements,
		})
	}
	return out
}
