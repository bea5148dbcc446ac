package entity

import "time"

// Product representa un producto del catálogo de venta.
// El precio vive en PriceEntry y el stock por ubicación en InventoryRecord.
type Product struct {
	ID         string
	Name       string
	CategoryID string
	SupplierID string // persona con categoría SUPPLIER
	StateID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductPriceView producto con su precio vigente (nil si nunca tuvo precio).
type ProductPriceView struct {
	Product
	CategoryName   string
	PriceEntryID   string
	Price          *int64
	PriceUpdatedAt *time.Time
}

// ProductDependents cuenta las filas que referencian un producto.
type ProductDependents struct {
	Inventory int64
	Movements int64
	SaleLines int64
}

// Any indica si existe al menos una dependencia.
func (d ProductDependents) Any() bool {
	return d.Inventory > 0 || d.Movements > 0 || d.SaleLines > 0
}
