package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// PriceHistoryRepository historial de precios append-only.
type PriceHistoryRepository interface {
	// Append inserta la entrada y completa Seq.
	Append(ctx context.Context, e *entity.PriceEntry) error
	// Current devuelve la entrada vigente en asOf, o nil si no hay ninguna.
	Current(ctx context.Context, productID string, asOf time.Time) (*entity.PriceEntry, error)
	// CurrentForProducts resuelve el precio vigente de varios productos en una sola consulta.
	CurrentForProducts(ctx context.Context, productIDs []string, asOf time.Time) (map[string]*entity.PriceEntry, error)
	// ListByProduct devuelve el historial del más reciente al más antiguo.
	ListByProduct(ctx context.Context, productID string) ([]*entity.PriceEntry, error)
	DeleteByProduct(ctx context.Context, productID string) error
}
