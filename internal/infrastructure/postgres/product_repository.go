package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
	"github.com/jhoicas/pos-ledger/pkg/textnorm"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, name, category_id, supplier_id, state_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.Name, p.CategoryID, p.SupplierID, p.StateID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", mapError(err))
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, name, category_id, supplier_id, state_id, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.SupplierID, &p.StateID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza nombre y referencias del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category_id = $3, supplier_id = $4, state_id = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.Name, p.CategoryID, p.SupplierID, p.StateID, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", mapError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", mapError(err))
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Search filtra por nombre sin mayúsculas ni acentos y agrega el precio vigente en asOf.
func (r *ProductRepo) Search(ctx context.Context, query string, asOf time.Time, limit int) ([]entity.ProductPriceView, error) {
	sql := `
		SELECT p.id, p.name, p.category_id, p.supplier_id, p.state_id, p.created_at, p.updated_at,
		       COALESCE(c.name, ''), ph.id, ph.price, ph.registered_at
		FROM products p
		LEFT JOIN product_categories c ON c.id = p.category_id
		LEFT JOIN LATERAL (
			SELECT id, price, registered_at FROM price_history
			WHERE product_id = p.id AND registered_at <= $2
			ORDER BY registered_at DESC, seq DESC
			LIMIT 1
		) ph ON true
		WHERE $1 = '' OR translate(lower(p.name), $4, $5) LIKE '%' || $1 || '%'
		ORDER BY p.name, p.id
		LIMIT $3`
	rows, err := r.q.Query(ctx, sql, textnorm.Fold(query), asOf, limit, textnorm.Accented, textnorm.Plain)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	list := make([]entity.ProductPriceView, 0)
	for rows.Next() {
		var v entity.ProductPriceView
		var priceID *string
		if err := rows.Scan(&v.ID, &v.Name, &v.CategoryID, &v.SupplierID, &v.StateID, &v.CreatedAt, &v.UpdatedAt,
			&v.CategoryName, &priceID, &v.Price, &v.PriceUpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if priceID != nil {
			v.PriceEntryID = *priceID
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// CountDependents cuenta inventario, movimientos y líneas de venta del producto.
func (r *ProductRepo) CountDependents(ctx context.Context, id string) (entity.ProductDependents, error) {
	query := `
		SELECT
			(SELECT count(*) FROM inventory WHERE product_id = $1),
			(SELECT count(*) FROM stock_movements WHERE product_id = $1),
			(SELECT count(*) FROM sales_order_lines WHERE product_id = $1)`
	var d entity.ProductDependents
	if err := r.q.QueryRow(ctx, query, id).Scan(&d.Inventory, &d.Movements, &d.SaleLines); err != nil {
		return d, fmt.Errorf("count product dependents: %w", mapError(err))
	}
	return d, nil
}
