package entity

import "time"

// Nombres de eventos publicados después del commit.
const (
	EventMovementRecorded  = "movement.recorded"
	EventStockBelowMinimum = "stock.below_minimum"
	EventSaleCompleted     = "sale.completed"
)

// Event notificación de dominio emitida tras confirmar una unidad de trabajo.
type Event struct {
	Name           string       `json:"name"`
	OccurredAt     time.Time    `json:"occurred_at"`
	ProductID      string       `json:"product_id,omitempty"`
	LocationID     string       `json:"location_id,omitempty"`
	MovementID     string       `json:"movement_id,omitempty"`
	MovementType   MovementType `json:"movement_type,omitempty"`
	Quantity       int64        `json:"quantity,omitempty"`
	Available      int64        `json:"available"`
	Minimum        int64        `json:"minimum,omitempty"`
	CorrelationKey string       `json:"correlation_key,omitempty"`
	OrderID        string       `json:"order_id,omitempty"`
	Total          int64        `json:"total,omitempty"`
}
