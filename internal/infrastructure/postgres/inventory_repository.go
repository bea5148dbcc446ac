package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo proyección de stock por (producto, ubicación) sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

const inventoryColumns = `id, product_id, location_id, available, minimum, maximum, updated_at`

func (r *InventoryRepo) get(ctx context.Context, productID, locationID, suffix string) (*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 AND location_id = $2` + suffix
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID, locationID).Scan(
		&rec.ID, &rec.ProductID, &rec.LocationID, &rec.Available, &rec.Minimum, &rec.Maximum, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", mapError(err))
	}
	return &rec, nil
}

func (r *InventoryRepo) Get(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, productID, locationID, "")
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, locationID string) (*entity.InventoryRecord, error) {
	return r.get(ctx, productID, locationID, " FOR UPDATE")
}

func (r *InventoryRepo) Create(ctx context.Context, rec *entity.InventoryRecord) error {
	query := `
		INSERT INTO inventory (` + inventoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ProductID, rec.LocationID, rec.Available, rec.Minimum, rec.Maximum, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", mapError(err))
	}
	return nil
}

func (r *InventoryRepo) UpdateAvailable(ctx context.Context, id string, available int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE inventory SET available = $2, updated_at = $3 WHERE id = $1`, id, available, at)
	if err != nil {
		return fmt.Errorf("update available: %w", mapError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) UpdateBounds(ctx context.Context, id string, minimum, maximum int64, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE inventory SET minimum = $2, maximum = $3, updated_at = $4 WHERE id = $1`, id, minimum, maximum, at)
	if err != nil {
		return fmt.Errorf("update bounds: %w", mapError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InventoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryRecord, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 ORDER BY location_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list inventory by product: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.InventoryRecord, 0)
	for rows.Next() {
		var rec entity.InventoryRecord
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.LocationID, &rec.Available, &rec.Minimum, &rec.Maximum, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// inventoryViewQuery une producto, ubicación y precio vigente; el valor de stock se calcula en NUMERIC.
const inventoryViewQuery = `
	SELECT i.id, i.product_id, p.name, i.location_id, l.name, l.address,
	       i.available, i.minimum, i.maximum, i.updated_at,
	       ph.id, ph.price, ph.registered_at,
	       COALESCE(ph.price::numeric / 100 * i.available, 0)
	FROM inventory i
	JOIN products p ON p.id = i.product_id
	JOIN locations l ON l.id = i.location_id
	LEFT JOIN LATERAL (
		SELECT id, price, registered_at FROM price_history
		WHERE product_id = i.product_id AND registered_at <= $1
		ORDER BY registered_at DESC, seq DESC
		LIMIT 1
	) ph ON true`

func (r *InventoryRepo) ListAll(ctx context.Context, asOf time.Time) ([]entity.InventoryView, error) {
	return r.listViews(ctx, inventoryViewQuery+` ORDER BY p.name, l.name`, asOf)
}

func (r *InventoryRepo) ListBelowMinimum(ctx context.Context, asOf time.Time) ([]entity.InventoryView, error) {
	return r.listViews(ctx, inventoryViewQuery+` WHERE i.available < i.minimum ORDER BY p.name, l.name`, asOf)
}

func (r *InventoryRepo) listViews(ctx context.Context, query string, asOf time.Time) ([]entity.InventoryView, error) {
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := make([]entity.InventoryView, 0)
	for rows.Next() {
		var v entity.InventoryView
		var priceID *string
		var value decimal.Decimal
		if err := rows.Scan(&v.InventoryID, &v.ProductID, &v.ProductName, &v.LocationID, &v.LocationName, &v.LocationAddress,
			&v.Available, &v.Minimum, &v.Maximum, &v.UpdatedAt,
			&priceID, &v.Price, &v.PriceUpdatedAt, &value); err != nil {
			return nil, fmt.Errorf("scan inventory view: %w", err)
		}
		if priceID != nil {
			v.PriceEntryID = *priceID
		}
		v.StockValue = value
		list = append(list, v)
	}
	return list, rows.Err()
}
