package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla rechaza UPDATE y DELETE mediante trigger.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Append persiste un movimiento y completa Seq.
func (r *StockMovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, location_id, type, quantity, occurred_at, actor_id, correlation_key, comment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.LocationID, string(m.Type), m.Quantity, m.OccurredAt, m.ActorID, m.CorrelationKey, m.Comment,
	).Scan(&m.Seq)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", mapError(err))
	}
	return nil
}

// ListByProduct historial con ubicación y actor, del más reciente al más antiguo.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string) ([]entity.MovementView, error) {
	query := `
		SELECT m.id, m.occurred_at, m.type, m.quantity, m.correlation_key, m.comment,
		       m.location_id, COALESCE(l.name, ''), COALESCE(l.address, ''),
		       m.actor_id, COALESCE(u.name, '')
		FROM stock_movements m
		LEFT JOIN locations l ON l.id = m.location_id
		LEFT JOIN users u ON u.id = m.actor_id
		WHERE m.product_id = $1
		ORDER BY m.occurred_at DESC, m.seq DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]entity.MovementView, 0)
	for rows.Next() {
		var v entity.MovementView
		var mt string
		if err := rows.Scan(&v.ID, &v.OccurredAt, &mt, &v.Quantity, &v.CorrelationKey, &v.Comment,
			&v.LocationID, &v.LocationName, &v.LocationAddress, &v.ActorID, &v.ActorName); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		v.Type = entity.MovementType(mt)
		list = append(list, v)
	}
	return list, rows.Err()
}

// Balances suma los deltas firmados del libro por par y los cruza con la proyección.
func (r *StockMovementRepo) Balances(ctx context.Context) ([]entity.LedgerBalance, error) {
	query := `
		WITH ledger AS (
			SELECT product_id, location_id,
			       SUM(CASE WHEN type IN ('SALE', 'OUTBOUND') THEN -quantity
			                WHEN type = 'EDIT' THEN 0
			                ELSE quantity END)::bigint AS ledger_sum,
			       COUNT(*)::bigint AS movements
			FROM stock_movements
			GROUP BY product_id, location_id
		)
		SELECT COALESCE(i.product_id, g.product_id), COALESCE(i.location_id, g.location_id),
		       COALESCE(i.available, 0), COALESCE(g.ledger_sum, 0), COALESCE(g.movements, 0)
		FROM inventory i
		FULL OUTER JOIN ledger g ON g.product_id = i.product_id AND g.location_id = i.location_id
		ORDER BY 1, 2`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger balances: %w", err)
	}
	defer rows.Close()
	list := make([]entity.LedgerBalance, 0)
	for rows.Next() {
		var b entity.LedgerBalance
		if err := rows.Scan(&b.ProductID, &b.LocationID, &b.Available, &b.LedgerSum, &b.Movements); err != nil {
			return nil, fmt.Errorf("scan ledger balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
