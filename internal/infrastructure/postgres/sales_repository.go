package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo cabeceras y líneas de venta sobre PostgreSQL.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

func (r *SalesRepo) CreateOrder(ctx context.Context, o *entity.SalesOrder) error {
	query := `
		INSERT INTO sales_orders (id, customer_id, actor_id, ordered_at, total)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, o.ID, o.CustomerID, o.ActorID, o.OrderedAt, o.Total); err != nil {
		return fmt.Errorf("insert sales order: %w", mapError(err))
	}
	return nil
}

// CreateLine inserta la línea; el precio unitario se recupera luego por price_entry_id.
func (r *SalesRepo) CreateLine(ctx context.Context, l *entity.SalesOrderLine) error {
	query := `
		INSERT INTO sales_order_lines (id, order_id, line_no, product_id, location_id, price_entry_id, quantity, subtotal, payment_method_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.OrderID, l.LineNo, l.ProductID, l.LocationID, l.PriceEntryID, l.Quantity, l.Subtotal, l.PaymentMethodID,
	)
	if err != nil {
		return fmt.Errorf("insert sales order line: %w", mapError(err))
	}
	return nil
}

func (r *SalesRepo) GetOrder(ctx context.Context, id string) (*entity.SalesOrder, error) {
	query := `SELECT id, customer_id, actor_id, ordered_at, total FROM sales_orders WHERE id = $1`
	var o entity.SalesOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.CustomerID, &o.ActorID, &o.OrderedAt, &o.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT sl.id, sl.order_id, sl.line_no, sl.product_id, sl.location_id, sl.price_entry_id, ph.price,
		       sl.quantity, sl.subtotal, sl.payment_method_id
		FROM sales_order_lines sl
		JOIN price_history ph ON ph.id = sl.price_entry_id
		WHERE sl.order_id = $1
		ORDER BY sl.line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get sales order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.LineNo, &l.ProductID, &l.LocationID, &l.PriceEntryID, &l.UnitPrice,
			&l.Quantity, &l.Subtotal, &l.PaymentMethodID); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get sales order lines: %w", err)
	}
	return &o, nil
}

// ListLines detalle de la venta con cliente, producto, precio y método de pago, en el orden de captura.
func (r *SalesRepo) ListLines(ctx context.Context, orderID string) ([]entity.SaleLineView, error) {
	query := `
		SELECT sl.id, sl.line_no, so.id, so.ordered_at, so.customer_id, COALESCE(c.name, ''),
		       sl.product_id, COALESCE(p.name, ''), sl.price_entry_id, ph.price,
		       sl.quantity, sl.subtotal, sl.payment_method_id, COALESCE(pm.name, '')
		FROM sales_order_lines sl
		JOIN sales_orders so ON so.id = sl.order_id
		JOIN price_history ph ON ph.id = sl.price_entry_id
		LEFT JOIN persons c ON c.id = so.customer_id
		LEFT JOIN products p ON p.id = sl.product_id
		LEFT JOIN payment_methods pm ON pm.id = sl.payment_method_id
		WHERE sl.order_id = $1
		ORDER BY sl.line_no`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list sales order lines: %w", mapError(err))
	}
	defer rows.Close()
	list := make([]entity.SaleLineView, 0)
	for rows.Next() {
		var v entity.SaleLineView
		if err := rows.Scan(&v.LineID, &v.LineNo, &v.OrderID, &v.OrderedAt, &v.CustomerID, &v.CustomerName,
			&v.ProductID, &v.ProductName, &v.PriceEntryID, &v.UnitPrice,
			&v.Quantity, &v.Subtotal, &v.PaymentMethodID, &v.PaymentMethodName); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}
