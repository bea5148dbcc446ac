package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord stock de un producto en una ubicación. Único por (ProductID, LocationID).
// Available solo lo modifica el motor de movimientos.
type InventoryRecord struct {
	ID         string
	ProductID  string
	LocationID string
	Available  int64
	Minimum    int64
	Maximum    int64
	UpdatedAt  time.Time
}

// BelowMinimum indica si el stock disponible quedó por debajo del mínimo.
func (r InventoryRecord) BelowMinimum() bool {
	return r.Available < r.Minimum
}

// InventoryView fila del listado de inventario con producto, ubicación y precio vigente.
type InventoryView struct {
	InventoryID     string
	ProductID       string
	ProductName     string
	LocationID      string
	LocationName    string
	LocationAddress string
	Available       int64
	Minimum         int64
	Maximum         int64
	PriceEntryID    string
	Price           *int64
	PriceUpdatedAt  *time.Time
	StockValue      decimal.Decimal // Available × precio vigente, en unidades mayores
	UpdatedAt       time.Time
}

// LedgerBalance compara el stock proyectado con la suma firmada del libro de movimientos.
type LedgerBalance struct {
	ProductID  string
	LocationID string
	Available  int64
	LedgerSum  int64
	Movements  int64
}

// Consistent indica si la proyección coincide con el libro.
func (b LedgerBalance) Consistent() bool {
	return b.Available == b.LedgerSum
}
