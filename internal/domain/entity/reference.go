package entity

// RefKind identifica una tabla de catálogo consultada solo por existencia.
type RefKind string

const (
	RefCategory      RefKind = "category"
	RefSupplier      RefKind = "supplier"
	RefCustomer      RefKind = "customer"
	RefState         RefKind = "state"
	RefLocation      RefKind = "location"
	RefPaymentMethod RefKind = "payment_method"
	RefProduct       RefKind = "product"
	RefActor         RefKind = "user"
)

// PersonCategorySupplier código de la categoría de persona que identifica proveedores.
const PersonCategorySupplier = "SUPPLIER"

// Actor usuario (o actor de sistema) que origina un movimiento o una venta.
type Actor struct {
	ID   string
	Name string
}
