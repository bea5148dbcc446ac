package sales

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y ventas.
type SalesTxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// StockMover integra ventas con el motor de movimientos.
// ApplyInTx usa los repositorios del caller (misma transacción); si retorna error el caller hace rollback.
type StockMover interface {
	ApplyInTx(ctx context.Context, repos repository.Repos, in inventory.ApplyInput) (*inventory.ApplyResult, error)
	Committed(ctx context.Context, results ...*inventory.ApplyResult)
	Now() time.Time
}

// PriceResolver resuelve precios vigentes para un conjunto de productos.
type PriceResolver interface {
	CurrentPrices(ctx context.Context, productIDs []string, asOf time.Time) (map[string]*entity.PriceEntry, error)
}

// ReceiptGenerator genera la representación imprimible de una venta.
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, order *entity.SalesOrder, lines []entity.SaleLineView) ([]byte, error)
}
