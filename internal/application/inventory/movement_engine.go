package inventory

import (
	"context"
	"fmt"
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

// MovementEngine es el único escritor de InventoryRecord.Available.
// Cada cambio de stock deja exactamente una fila en el libro dentro de la misma unidad de trabajo.
type MovementEngine struct {
	txRunner TxRunner
	refs     repository.ReferenceRepository
	actors   *identity.ActorResolver
	events   EventPublisher
	metrics  *metrics.LedgerMetrics
	now      func() time.Time
}

// NewMovementEngine construye el motor de movimientos. events y m pueden ser nil.
func NewMovementEngine(
	txRunner TxRunner,
	refs repository.ReferenceRepository,
	actors *identity.ActorResolver,
	events EventPublisher,
	m *metrics.LedgerMetrics,
) *MovementEngine {
	return &MovementEngine{
		txRunner: txRunner,
		refs:     refs,
		actors:   actors,
		events:   events,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (e *MovementEngine) WithClock(now func() time.Time) *MovementEngine {
	e.now = now
	return e
}

// Now devuelve la hora según el reloj del motor.
func (e *MovementEngine) Now() time.Time {
	return e.now()
}

// ApplyInput datos de un movimiento aplicado dentro de una unidad de trabajo existente.
type ApplyInput struct {
	ProductID  string
	LocationID string
	Type       entity.MovementType
	Quantity   int64
	ActorID    string // ya resuelto
	Comment    string
	// CorrelationID origen de la clave de correlación; vacío usa el id del movimiento.
	CorrelationID string
	// Minimum y Maximum solo aplican a CREATION.
	Minimum int64
	Maximum int64
	At      time.Time
}

// ApplyResult estado resultante de un movimiento aplicado.
type ApplyResult struct {
	Movement *entity.StockMovement
	Record   entity.InventoryRecord
}

// ApplyInTx bloquea el registro, calcula el nuevo disponible, lo escribe y agrega la fila al libro.
// No confirma: el commit es responsabilidad del TxRunner del llamador.
func (e *MovementEngine) ApplyInTx(ctx context.Context, repos repository.Repos, in ApplyInput) (*ApplyResult, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, in.Type)
	}
	if in.ProductID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("%w: producto y ubicación son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if in.Type == entity.MovementEdit && in.Quantity != 0 {
		return nil, fmt.Errorf("%w: EDIT solo admite cantidad 0", domain.ErrInvalidInput)
	}
	at := in.At
	if at.IsZero() {
		at = e.now()
	}

	// Bloquea la fila (SELECT FOR UPDATE) para evitar condiciones de carrera
	rec, err := repos.Inventory.GetForUpdate(ctx, in.ProductID, in.LocationID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}

	creating := in.Type == entity.MovementCreation
	switch {
	case rec == nil && !creating:
		return nil, fmt.Errorf("%w: sin inventario para producto %s en ubicación %s", domain.ErrNotFound, in.ProductID, in.LocationID)
	case rec != nil && creating:
		return nil, fmt.Errorf("%w: ya existe inventario para producto %s en ubicación %s", domain.ErrConflict, in.ProductID, in.LocationID)
	case creating:
		if in.Minimum < 0 || in.Maximum < in.Minimum {
			return nil, fmt.Errorf("%w: se requiere 0 <= mínimo <= máximo", domain.ErrInvalidInput)
		}
		rec = &entity.InventoryRecord{
			ID:         uuid.New().String(),
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Minimum:    in.Minimum,
			Maximum:    in.Maximum,
		}
	}

	newAvailable, ok := entity.CheckedAdd(rec.Available, in.Type.Delta(in.Quantity))
	if !ok {
		return nil, fmt.Errorf("%w: cantidad %d desborda el disponible %d", domain.ErrInvalidInput, in.Quantity, rec.Available)
	}
	if newAvailable < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Available:  rec.Available,
			Requested:  in.Quantity,
		}
	}

	switch {
	case creating:
		rec.Available = newAvailable
		rec.UpdatedAt = at
		if err := repos.Inventory.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("create inventory: %w", err)
		}
	case newAvailable != rec.Available:
		if err := repos.Inventory.UpdateAvailable(ctx, rec.ID, newAvailable, at); err != nil {
			return nil, fmt.Errorf("update available: %w", err)
		}
		rec.Available = newAvailable
		rec.UpdatedAt = at
	}

	movID := uuid.New().String()
	corr := in.CorrelationID
	if corr == "" {
		corr = movID
	}
	mov := &entity.StockMovement{
		ID:             movID,
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		OccurredAt:     at,
		ActorID:        in.ActorID,
		CorrelationKey: entity.CorrelationKey(in.Type, corr),
		Comment:        in.Comment,
	}
	if err := repos.Movements.Append(ctx, mov); err != nil {
		return nil, fmt.Errorf("append movement: %w", err)
	}
	return &ApplyResult{Movement: mov, Record: *rec}, nil
}

// Committed registra métricas y publica eventos de movimientos ya confirmados.
func (e *MovementEngine) Committed(ctx context.Context, results ...*ApplyResult) {
	events := make([]entity.Event, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		e.metrics.ObserveMovement(string(r.Movement.Type), r.Movement.Quantity)
		events = append(events, entity.Event{
			Name:           entity.EventMovementRecorded,
			OccurredAt:     r.Movement.OccurredAt,
			ProductID:      r.Movement.ProductID,
			LocationID:     r.Movement.LocationID,
			MovementID:     r.Movement.ID,
			MovementType:   r.Movement.Type,
			Quantity:       r.Movement.Quantity,
			Available:      r.Record.Available,
			Minimum:        r.Record.Minimum,
			CorrelationKey: r.Movement.CorrelationKey,
		})
		if r.Movement.Type.Delta(r.Movement.Quantity) < 0 && r.Record.BelowMinimum() {
			e.metrics.IncBelowMinimum()
			events = append(events, entity.Event{
				Name:       entity.EventStockBelowMinimum,
				OccurredAt: r.Movement.OccurredAt,
				ProductID:  r.Record.ProductID,
				LocationID: r.Record.LocationID,
				Available:  r.Record.Available,
				Minimum:    r.Record.Minimum,
			})
		}
	}
	e.publish(ctx, events...)
}

func (e *MovementEngine) publish(ctx context.Context, events ...entity.Event) {
	if e.events == nil || len(events) == 0 {
		return
	}
	e.events.Publish(ctx, events...)
}

// MovementInput entrada de un movimiento manual (compra, entrada, salida...).
type MovementInput struct {
	ProductID  string
	LocationID string
	Type       string
	Quantity   int64
	Comment    string
	ActorID    string
}

// RecordMovement valida referencias, resuelve el actor y aplica el movimiento en su propia unidad de trabajo.
func (e *MovementEngine) RecordMovement(ctx context.Context, in MovementInput) (mov *entity.StockMovement, err error) {
	const op = "record_movement"
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "inventory.RecordMovement",
		attribute.String("product.id", in.ProductID),
		attribute.String("location.id", in.LocationID),
		attribute.String("movement.type", in.Type),
	)
	defer func() {
		telemetry.EndSpan(span, err)
		e.metrics.ObserveDuration(op, time.Since(start))
		if err != nil {
			e.metrics.IncFailure(op, domain.ErrorCode(err))
		}
	}()

	mt, ok := entity.ParseMovementType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, in.Type)
	}
	if in.ProductID == "" || in.LocationID == "" {
		return nil, fmt.Errorf("%w: producto y ubicación son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if err := CheckReferences(ctx, e.refs,
		Ref{entity.RefProduct, in.ProductID},
		Ref{entity.RefLocation, in.LocationID},
	); err != nil {
		return nil, err
	}
	actorID, err := e.actors.Resolve(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}

	var res *ApplyResult
	err = e.txRunner.Run(ctx, func(repos repository.Repos) error {
		var err error
		res, err = e.ApplyInTx(ctx, repos, ApplyInput{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Type:       mt,
			Quantity:   in.Quantity,
			ActorID:    actorID,
			Comment:    in.Comment,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	e.Committed(ctx, res)
	return res.Movement, nil
}
