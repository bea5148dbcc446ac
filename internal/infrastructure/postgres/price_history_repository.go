package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo historial de precios append-only sobre PostgreSQL.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

const priceColumns = `id, seq, product_id, price, registered_at`

func scanPrice(row pgx.Row) (*entity.PriceEntry, error) {
	var e entity.PriceEntry
	if err := row.Scan(&e.ID, &e.Seq, &e.ProductID, &e.Price, &e.RegisteredAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Append inserta la entrada; seq lo asigna la secuencia.
func (r *PriceHistoryRepo) Append(ctx context.Context, e *entity.PriceEntry) error {
	query := `
		INSERT INTO price_history (id, product_id, price, registered_at)
		VALUES ($1, $2, $3, $4)
		RETURNING seq`
	if err := r.q.QueryRow(ctx, query, e.ID, e.ProductID, e.Price, e.RegisteredAt).Scan(&e.Seq); err != nil {
		return fmt.Errorf("insert price entry: %w", mapError(err))
	}
	return nil
}

// Current precio vigente en asOf: mayor registered_at <= asOf, desempate por seq.
func (r *PriceHistoryRepo) Current(ctx context.Context, productID string, asOf time.Time) (*entity.PriceEntry, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price_history
		WHERE product_id = $1 AND registered_at <= $2
		ORDER BY registered_at DESC, seq DESC
		LIMIT 1`
	e, err := scanPrice(r.q.QueryRow(ctx, query, productID, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("current price: %w", err)
	}
	return e, nil
}

// CurrentForProducts resuelve el precio vigente de varios productos con DISTINCT ON.
func (r *PriceHistoryRepo) CurrentForProducts(ctx context.Context, productIDs []string, asOf time.Time) (map[string]*entity.PriceEntry, error) {
	out := make(map[string]*entity.PriceEntry, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT DISTINCT ON (product_id) ` + priceColumns + `
		FROM price_history
		WHERE product_id = ANY($1::uuid[]) AND registered_at <= $2
		ORDER BY product_id, registered_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, productIDs, asOf)
	if err != nil {
		if isInvalidText(err) {
			return out, nil
		}
		return nil, fmt.Errorf("current prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		e, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price entry: %w", err)
		}
		out[e.ProductID] = e
	}
	if err := rows.Err(); err != nil {
		if isInvalidText(err) {
			return map[string]*entity.PriceEntry{}, nil
		}
		return nil, fmt.Errorf("current prices: %w", err)
	}
	return out, nil
}

// ListByProduct historial del más reciente al más antiguo.
func (r *PriceHistoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.PriceEntry, error) {
	query := `
		SELECT ` + priceColumns + `
		FROM price_history
		WHERE product_id = $1
		ORDER BY registered_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]*entity.PriceEntry, 0)
	for rows.Next() {
		e, err := scanPrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// DeleteByProduct elimina el historial (solo al borrar el producto).
func (r *PriceHistoryRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM price_history WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete price history: %w", mapError(err))
	}
	return nil
}
