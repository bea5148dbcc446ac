package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
	"github.com/jhoicas/pos-ledger/pkg/telemetry"
)

// ProductLifecycleUseCase crea, edita y elimina productos junto con su precio e inventario,
// siempre en una sola unidad de trabajo.
type ProductLifecycleUseCase struct {
	txRunner TxRunner
	refs     repository.ReferenceRepository
	products repository.ProductRepository
	engine   *MovementEngine
	pricing  *PricingService
	actors   *identity.ActorResolver
	metrics  *metrics.LedgerMetrics
}

// NewProductLifecycleUseCase construye el caso de uso.
func NewProductLifecycleUseCase(
	txRunner TxRunner,
	refs repository.ReferenceRepository,
	products repository.ProductRepository,
	engine *MovementEngine,
	pricing *PricingService,
	actors *identity.ActorResolver,
	m *metrics.LedgerMetrics,
) *ProductLifecycleUseCase {
	return &ProductLifecycleUseCase{
		txRunner: txRunner,
		refs:     refs,
		products: products,
		engine:   engine,
		pricing:  pricing,
		actors:   actors,
		metrics:  m,
	}
}

// CreateProductInput producto nuevo con precio e inventario inicial en una ubicación.
type CreateProductInput struct {
	ID               string // opcional; si viene debe ser uuid
	Name             string
	CategoryID       string
	SupplierID       string
	StateID          string
	Price            int64
	LocationID       string
	InitialAvailable int64
	Minimum          int64
	Maximum          int64
	ActorID          string
}

func (in CreateProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	if in.ID != "" {
		if _, err := uuid.Parse(in.ID); err != nil {
			return fmt.Errorf("%w: id de producto no es uuid", domain.ErrInvalidInput)
		}
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.InitialAvailable < 0 || in.Minimum < 0 {
		return fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if in.Maximum < in.Minimum {
		return fmt.Errorf("%w: el máximo debe ser >= mínimo", domain.ErrInvalidInput)
	}
	return nil
}

// Create valida las cuatro referencias antes de abrir la transacción y luego inserta producto,
// precio, inventario y el movimiento CREATION juntos. Devuelve el id del producto.
func (uc *ProductLifecycleUseCase) Create(ctx context.Context, in CreateProductInput) (id string, err error) {
	ctx, done := uc.trace(ctx, "create_product", attribute.String("location.id", in.LocationID))
	defer func() { done(err) }()

	if err := in.validate(); err != nil {
		return "", err
	}
	if err := CheckReferences(ctx, uc.refs,
		Ref{entity.RefCategory, in.CategoryID},
		Ref{entity.RefSupplier, in.SupplierID},
		Ref{entity.RefState, in.StateID},
		Ref{entity.RefLocation, in.LocationID},
	); err != nil {
		return "", err
	}
	actorID, err := uc.actors.Resolve(ctx, in.ActorID)
	if err != nil {
		return "", err
	}

	id = in.ID
	if id == "" {
		id = uuid.New().String()
	}
	now := uc.engine.Now()
	product := &entity.Product{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		StateID:    in.StateID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var res *ApplyResult
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Products.Create(ctx, product); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if _, err := uc.pricing.RecordPriceInTx(ctx, repos.Prices, id, in.Price, now); err != nil {
			return err
		}
		var err error
		res, err = uc.engine.ApplyInTx(ctx, repos, ApplyInput{
			ProductID:     id,
			LocationID:    in.LocationID,
			Type:          entity.MovementCreation,
			Quantity:      in.InitialAvailable,
			ActorID:       actorID,
			CorrelationID: id,
			Minimum:       in.Minimum,
			Maximum:       in.Maximum,
			At:            now,
		})
		return err
	})
	if err != nil {
		return "", err
	}
	uc.engine.Committed(ctx, res)
	return id, nil
}

// UpdateProductInput edición de producto, precio opcional y límites de inventario en una ubicación.
type UpdateProductInput struct {
	ProductID   string
	Name        string
	CategoryID  string
	SupplierID  string
	StateID     string
	Price       int64
	UpdatePrice bool
	LocationID  string
	Minimum     *int64
	Maximum     *int64
	// InitialQuantity crea el inventario en LocationID si todavía no existe.
	InitialQuantity *int64
	Comment         string
	ActorID         string
}

// UpdateWithInventory actualiza el producto y deja siempre un movimiento EDIT como traza de auditoría.
func (uc *ProductLifecycleUseCase) UpdateWithInventory(ctx context.Context, in UpdateProductInput) (err error) {
	ctx, done := uc.trace(ctx, "update_product", attribute.String("product.id", in.ProductID))
	defer func() { done(err) }()

	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	if in.UpdatePrice && in.Price < 0 {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if (in.Minimum != nil && *in.Minimum < 0) || (in.Maximum != nil && *in.Maximum < 0) {
		return fmt.Errorf("%w: límites negativos", domain.ErrInvalidInput)
	}
	if in.InitialQuantity != nil && *in.InitialQuantity < 0 {
		return fmt.Errorf("%w: cantidad inicial negativa", domain.ErrInvalidInput)
	}

	current, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if current == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}
	if err := CheckReferences(ctx, uc.refs,
		Ref{entity.RefCategory, in.CategoryID},
		Ref{entity.RefSupplier, in.SupplierID},
		Ref{entity.RefState, in.StateID},
		Ref{entity.RefLocation, in.LocationID},
	); err != nil {
		return err
	}
	actorID, err := uc.actors.Resolve(ctx, in.ActorID)
	if err != nil {
		return err
	}

	now := uc.engine.Now()
	updated := *current
	updated.Name = strings.TrimSpace(in.Name)
	updated.CategoryID = in.CategoryID
	updated.SupplierID = in.SupplierID
	updated.StateID = in.StateID
	updated.UpdatedAt = now

	var results []*ApplyResult
	err = uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		if err := repos.Products.Update(ctx, &updated); err != nil {
			return fmt.Errorf("update product: %w", err)
		}
		if in.UpdatePrice {
			if _, err := uc.pricing.RecordPriceInTx(ctx, repos.Prices, in.ProductID, in.Price, now); err != nil {
				return err
			}
		}

		rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return fmt.Errorf("lock inventory: %w", err)
		}
		switch {
		case rec != nil:
			if err := AdjustBoundsInTx(ctx, repos.Inventory, rec, in.Minimum, in.Maximum, now); err != nil {
				return err
			}
		case in.InitialQuantity != nil:
			minimum, maximum := creationBounds(*in.InitialQuantity, in.Minimum, in.Maximum)
			res, err := uc.engine.ApplyInTx(ctx, repos, ApplyInput{
				ProductID:     in.ProductID,
				LocationID:    in.LocationID,
				Type:          entity.MovementCreation,
				Quantity:      *in.InitialQuantity,
				ActorID:       actorID,
				CorrelationID: in.ProductID,
				Minimum:       minimum,
				Maximum:       maximum,
				At:            now,
			})
			if err != nil {
				return err
			}
			results = append(results, res)
		default:
			return fmt.Errorf("%w: sin inventario para producto %s en ubicación %s", domain.ErrNotFound, in.ProductID, in.LocationID)
		}

		res, err := uc.engine.ApplyInTx(ctx, repos, ApplyInput{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Type:       entity.MovementEdit,
			ActorID:    actorID,
			Comment:    in.Comment,
			At:         now,
		})
		if err != nil {
			return err
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return err
	}
	uc.engine.Committed(ctx, results...)
	return nil
}

// AdjustBoundsInTx actualiza solo los límites suministrados. No toca Available ni escribe en el libro.
func AdjustBoundsInTx(ctx context.Context, inv repository.InventoryRepository, rec *entity.InventoryRecord, minimum, maximum *int64, at time.Time) error {
	if minimum == nil && maximum == nil {
		return nil
	}
	newMin, newMax := rec.Minimum, rec.Maximum
	if minimum != nil {
		newMin = *minimum
	}
	if maximum != nil {
		newMax = *maximum
	}
	if newMin < 0 || newMax < newMin {
		return fmt.Errorf("%w: se requiere 0 <= mínimo (%d) <= máximo (%d)", domain.ErrInvalidInput, newMin, newMax)
	}
	if err := inv.UpdateBounds(ctx, rec.ID, newMin, newMax, at); err != nil {
		return fmt.Errorf("update bounds: %w", err)
	}
	rec.Minimum, rec.Maximum = newMin, newMax
	return nil
}

// creationBounds completa límites ausentes: mínimo 0 y máximo al menos la cantidad inicial.
func creationBounds(initial int64, minimum, maximum *int64) (int64, int64) {
	var lo int64
	if minimum != nil {
		lo = *minimum
	}
	hi := initial
	if hi < lo {
		hi = lo
	}
	if maximum != nil {
		hi = *maximum
	}
	return lo, hi
}

// Delete elimina el producto y su historial de precios. Rechaza la operación si existen
// inventario, movimientos o ventas que lo referencien. Todo producto creado con Create tiene
// registro de inventario y fila CREATION, así que solo se pueden borrar productos cargados
// fuera del libro (migraciones, importaciones) que nunca tuvieron stock.
func (uc *ProductLifecycleUseCase) Delete(ctx context.Context, productID string) (err error) {
	ctx, done := uc.trace(ctx, "delete_product", attribute.String("product.id", productID))
	defer func() { done(err) }()

	current, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if current == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}

	return uc.txRunner.Run(ctx, func(repos repository.Repos) error {
		deps, err := repos.Products.CountDependents(ctx, productID)
		if err != nil {
			return fmt.Errorf("count dependents: %w", err)
		}
		if deps.Any() {
			return &domain.DependentsError{
				ProductID: productID,
				Inventory: deps.Inventory,
				Movements: deps.Movements,
				SaleLines: deps.SaleLines,
			}
		}
		if err := repos.Prices.DeleteByProduct(ctx, productID); err != nil {
			return fmt.Errorf("delete price history: %w", err)
		}
		if err := repos.Products.Delete(ctx, productID); err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
}

func (uc *ProductLifecycleUseCase) trace(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "inventory."+op, attrs...)
	return ctx, func(err error) {
		telemetry.EndSpan(span, err)
		uc.metrics.ObserveDuration(op, time.Since(start))
		if err != nil {
			uc.metrics.IncFailure(op, domain.ErrorCode(err))
		}
	}
}
