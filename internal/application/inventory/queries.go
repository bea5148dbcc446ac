package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// QueryUseCase lecturas del inventario, el libro y el catálogo con precios (fuera de transacción).
type QueryUseCase struct {
	repos   repository.Repos
	pricing *PricingService
	now     func() time.Time
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(repos repository.Repos, pricing *PricingService) *QueryUseCase {
	return &QueryUseCase{repos: repos, pricing: pricing, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *QueryUseCase) WithClock(now func() time.Time) *QueryUseCase {
	uc.now = now
	return uc
}

// ListInventory devuelve todos los registros con producto, ubicación, precio vigente y valor de stock.
func (uc *QueryUseCase) ListInventory(ctx context.Context) ([]entity.InventoryView, error) {
	list, err := uc.repos.Inventory.ListAll(ctx, uc.now())
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return list, nil
}

// ListMovementHistory devuelve los movimientos del producto del más reciente al más antiguo.
func (uc *QueryUseCase) ListMovementHistory(ctx context.Context, productID string) ([]entity.MovementView, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	list, err := uc.repos.Movements.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return list, nil
}

// SearchProducts busca por nombre e incluye el precio vigente.
func (uc *QueryUseCase) SearchProducts(ctx context.Context, query string, limit int) ([]entity.ProductPriceView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := uc.repos.Products.Search(ctx, query, uc.now(), limit)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return list, nil
}

// ListPriceHistory historial de precios de un producto existente.
func (uc *QueryUseCase) ListPriceHistory(ctx context.Context, productID string) ([]*entity.PriceEntry, error) {
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return uc.pricing.ListPriceHistory(ctx, productID)
}

// LocationStock disponible de un producto en una ubicación.
type LocationStock struct {
	LocationID string
	Available  int64
}

// Availability resultado de CheckAvailability.
type Availability struct {
	ProductID  string
	Requested  int64
	Total      int64
	Sufficient bool
	Locations  []LocationStock
}

// CheckAvailability suma el disponible en todas las ubicaciones y lo compara con quantity.
func (uc *QueryUseCase) CheckAvailability(ctx context.Context, productID string, quantity int64) (*Availability, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := uc.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	recs, err := uc.repos.Inventory.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", err)
	}
	out := &Availability{ProductID: productID, Requested: quantity, Locations: make([]LocationStock, 0, len(recs))}
	for _, r := range recs {
		out.Total += r.Available
		out.Locations = append(out.Locations, LocationStock{LocationID: r.LocationID, Available: r.Available})
	}
	out.Sufficient = out.Total >= quantity
	return out, nil
}

func (uc *QueryUseCase) requireProduct(ctx context.Context, productID string) error {
	p, err := uc.repos.Products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}
