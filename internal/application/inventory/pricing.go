package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// PricingService registra y resuelve precios sobre el historial append-only.
type PricingService struct {
	prices repository.PriceHistoryRepository
	now    func() time.Time
}

// NewPricingService construye el servicio sobre el repositorio fuera de transacción.
func NewPricingService(prices repository.PriceHistoryRepository) *PricingService {
	return &PricingService{prices: prices, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (s *PricingService) WithClock(now func() time.Time) *PricingService {
	s.now = now
	return s
}

// RecordPriceInTx agrega una entrada al historial usando el repositorio de la unidad de trabajo.
// at vacío usa la hora actual.
func (s *PricingService) RecordPriceInTx(ctx context.Context, prices repository.PriceHistoryRepository, productID string, price int64, at time.Time) (*entity.PriceEntry, error) {
	if productID == "" {
		return nil, fmt.Errorf("%w: producto obligatorio", domain.ErrInvalidInput)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if at.IsZero() {
		at = s.now()
	}
	e := &entity.PriceEntry{
		ID:           uuid.New().String(),
		ProductID:    productID,
		Price:        price,
		RegisteredAt: at,
	}
	if err := prices.Append(ctx, e); err != nil {
		return nil, fmt.Errorf("record price: %w", err)
	}
	return e, nil
}

// CurrentPrice devuelve el precio vigente en asOf (cero = ahora).
func (s *PricingService) CurrentPrice(ctx context.Context, productID string, asOf time.Time) (*entity.PriceEntry, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	e, err := s.prices.Current(ctx, productID, asOf)
	if err != nil {
		return nil, fmt.Errorf("current price: %w", err)
	}
	if e == nil {
		return nil, &domain.PriceNotFoundError{ProductID: productID, AsOf: asOf}
	}
	return e, nil
}

// CurrentPrices resuelve varios productos en una consulta; falla con el primer producto sin precio.
func (s *PricingService) CurrentPrices(ctx context.Context, productIDs []string, asOf time.Time) (map[string]*entity.PriceEntry, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	found, err := s.prices.CurrentForProducts(ctx, productIDs, asOf)
	if err != nil {
		return nil, fmt.Errorf("current prices: %w", err)
	}
	for _, id := range productIDs {
		if found[id] == nil {
			return nil, &domain.PriceNotFoundError{ProductID: id, AsOf: asOf}
		}
	}
	return found, nil
}

// ListPriceHistory devuelve el historial del producto del más reciente al más antiguo.
func (s *PricingService) ListPriceHistory(ctx context.Context, productID string) ([]*entity.PriceEntry, error) {
	list, err := s.prices.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	return list, nil
}
