package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// SalesRepository cabeceras y líneas de venta.
type SalesRepository interface {
	CreateOrder(ctx context.Context, o *entity.SalesOrder) error
	CreateLine(ctx context.Context, l *entity.SalesOrderLine) error
	// GetOrder devuelve nil, nil si la orden no existe.
	GetOrder(ctx context.Context, id string) (*entity.SalesOrder, error)
	ListLines(ctx context.Context, orderID string) ([]entity.SaleLineView, error)
}
