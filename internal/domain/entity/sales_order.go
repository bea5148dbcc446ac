package entity

import "time"

// SalesOrder cabecera de una venta. Total = suma de los subtotales de sus líneas.
type SalesOrder struct {
	ID         string
	CustomerID string
	ActorID    string
	OrderedAt  time.Time
	Total      int64
	Lines      []SalesOrderLine
}

// SalesOrderLine línea de venta; PriceEntryID apunta al precio vigente al momento de la orden.
type SalesOrderLine struct {
	ID              string
	OrderID         string
	LineNo          int // posición en la venta, desde 1
	ProductID       string
	LocationID      string
	PriceEntryID    string
	UnitPrice       int64
	Quantity        int64
	Subtotal        int64
	PaymentMethodID string
}

// SaleLineView detalle de una línea de venta con nombres resueltos.
type SaleLineView struct {
	LineID            string
	LineNo            int
	OrderID           string
	OrderedAt         time.Time
	CustomerID        string
	CustomerName      string
	ProductID         string
	ProductName       string
	PriceEntryID      string
	UnitPrice         int64
	Quantity          int64
	Subtotal          int64
	PaymentMethodID   string
	PaymentMethodName string
}
