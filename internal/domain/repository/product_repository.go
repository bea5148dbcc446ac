package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update devuelve domain.ErrNotFound si el producto no existe.
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id string) error
	// Search filtra por nombre (sin distinguir mayúsculas ni acentos) e incluye el precio vigente en asOf.
	Search(ctx context.Context, query string, asOf time.Time, limit int) ([]entity.ProductPriceView, error)
	CountDependents(ctx context.Context, id string) (entity.ProductDependents, error)
}
