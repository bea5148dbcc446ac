package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
	"github.com/jhoicas/pos-ledger/pkg/telemetry"
)

// ProcessSaleUseCase registra una venta completa y descuenta el inventario en una sola transacción.
type ProcessSaleUseCase struct {
	txRunner SalesTxRunner
	stock    StockMover
	prices   PriceResolver
	refs     repository.ReferenceRepository
	sales    repository.SalesRepository
	actors   *identity.ActorResolver
	events   inventory.EventPublisher
	metrics  *metrics.LedgerMetrics
}

// NewProcessSaleUseCase construye el caso de uso. events y m pueden ser nil.
func NewProcessSaleUseCase(
	txRunner SalesTxRunner,
	stock StockMover,
	prices PriceResolver,
	refs repository.ReferenceRepository,
	sales repository.SalesRepository,
	actors *identity.ActorResolver,
	events inventory.EventPublisher,
	m *metrics.LedgerMetrics,
) *ProcessSaleUseCase {
	return &ProcessSaleUseCase{
		txRunner: txRunner,
		stock:    stock,
		prices:   prices,
		refs:     refs,
		sales:    sales,
		actors:   actors,
		events:   events,
		metrics:  m,
	}
}

// SaleLineInput línea pedida por el cliente.
type SaleLineInput struct {
	ProductID  string
	LocationID string
	Quantity   int64
}

// SaleInput venta completa.
type SaleInput struct {
	PaymentMethodID string
	CustomerID      string
	ActorID         string
	Lines           []SaleLineInput
}

// SaleResult venta confirmada.
type SaleResult struct {
	OrderID   string
	Total     int64
	OrderedAt time.Time
}

// ProcessSale resuelve precios, calcula el total y, en una unidad de trabajo, inserta la cabecera,
// aplica un movimiento SALE por línea (en el orden recibido) e inserta cada línea.
// Si una línea no tiene stock no persiste nada de la venta.
func (uc *ProcessSaleUseCase) ProcessSale(ctx context.Context, in SaleInput) (res *SaleResult, err error) {
	const op = "process_sale"
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "sales.ProcessSale",
		attribute.String("customer.id", in.CustomerID),
		attribute.Int("lines", len(in.Lines)),
	)
	defer func() {
		if res != nil {
			span.SetAttributes(attribute.String("order.id", res.OrderID))
		}
		telemetry.EndSpan(span, err)
		uc.metrics.ObserveDuration(op, time.Since(start))
		if err != nil {
			uc.metrics.IncFailure(op, domain.ErrorCode(err))
		}
	}()

	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la venta requiere al menos una línea", domain.ErrInvalidInput)
	}
	refs := []inventory.Ref{
		{Kind: entity.RefCustomer, ID: in.CustomerID},
		{Kind: entity.RefPaymentMethod, ID: in.PaymentMethodID},
	}
	productIDs := make([]string, 0, len(in.Lines))
	seenProduct := map[string]bool{}
	seenLocation := map[string]bool{}
	for i, l := range in.Lines {
		if l.ProductID == "" || l.LocationID == "" {
			return nil, fmt.Errorf("%w: línea %d sin producto o ubicación", domain.ErrInvalidInput, i+1)
		}
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i+1, l.Quantity)
		}
		if !seenProduct[l.ProductID] {
			seenProduct[l.ProductID] = true
			productIDs = append(productIDs, l.ProductID)
		}
		if !seenLocation[l.LocationID] {
			seenLocation[l.LocationID] = true
			refs = append(refs, inventory.Ref{Kind: entity.RefLocation, ID: l.LocationID})
		}
	}
	if err := inventory.CheckReferences(ctx, uc.refs, refs...); err != nil {
		return nil, err
	}
	actorID, err := uc.actors.Resolve(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	orderedAt := uc.stock.Now()
	prices, err := uc.prices.CurrentPrices(ctx, productIDs, orderedAt)
	if err != nil {
		return nil, err
	}

	subtotals := make([]int64, len(in.Lines))
	var total int64
	for i, l := range in.Lines {
		sub, ok := entity.CheckedMul(prices[l.ProductID].Price, l.Quantity)
		if ok {
			total, ok = entity.CheckedAdd(total, sub)
		}
		if !ok {
			return nil, fmt.Errorf("%w: línea %d desborda el total de la venta", domain.ErrInvalidInput, i+1)
		}
		subtotals[i] = sub
	}

	order := &entity.SalesOrder{
		ID:         uuid.New().String(),
		CustomerID: in.CustomerID,
		ActorID:    actorID,
		OrderedAt:  orderedAt,
		Total:      total,
	}

	var results []*inventory.ApplyResult
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		results = results[:0]
		if err := repos.Sales.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for i, l := range in.Lines {
			rec, err := repos.Inventory.GetForUpdate(ctx, l.ProductID, l.LocationID)
			if err != nil {
				return fmt.Errorf("lock inventory: %w", err)
			}
			if rec == nil || rec.Available < l.Quantity {
				var available int64
				if rec != nil {
					available = rec.Available
				}
				return &domain.InsufficientStockError{
					ProductID:  l.ProductID,
					LocationID: l.LocationID,
					Available:  available,
					Requested:  l.Quantity,
				}
			}

			applied, err := uc.stock.ApplyInTx(ctx, repos, inventory.ApplyInput{
				ProductID:     l.ProductID,
				LocationID:    l.LocationID,
				Type:          entity.MovementSale,
				Quantity:      l.Quantity,
				ActorID:       actorID,
				CorrelationID: order.ID,
				At:            orderedAt,
			})
			if err != nil {
				return err
			}
			results = append(results, applied)

			price := prices[l.ProductID]
			line := &entity.SalesOrderLine{
				ID:              uuid.New().String(),
				OrderID:         order.ID,
				LineNo:          i + 1,
				ProductID:       l.ProductID,
				LocationID:      l.LocationID,
				PriceEntryID:    price.ID,
				UnitPrice:       price.Price,
				Quantity:        l.Quantity,
				Subtotal:        subtotals[i],
				PaymentMethodID: in.PaymentMethodID,
			}
			if err := repos.Sales.CreateLine(ctx, line); err != nil {
				return fmt.Errorf("create order line: %w", err)
			}
			order.Lines = append(order.Lines, *line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.stock.Committed(ctx, results...)
	uc.metrics.ObserveSale(total)
	if uc.events != nil {
		uc.events.Publish(ctx, entity.Event{
			Name:       entity.EventSaleCompleted,
			OccurredAt: orderedAt,
			OrderID:    order.ID,
			Total:      total,
		})
	}
	return &SaleResult{OrderID: order.ID, Total: total, OrderedAt: orderedAt}, nil
}

// GetSaleDetail devuelve las líneas de la venta con producto, precio y método de pago.
func (uc *ProcessSaleUseCase) GetSaleDetail(ctx context.Context, saleID string) ([]entity.SaleLineView, error) {
	order, err := uc.sales.GetOrder(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, saleID)
	}
	lines, err := uc.sales.ListLines(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	return lines, nil
}
