package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo verifica existencia de filas de catálogo.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

// existsQueries una consulta por tipo; el proveedor además exige la categoría de persona SUPPLIER.
var existsQueries = map[entity.RefKind]string{
	entity.RefCategory: `SELECT EXISTS (SELECT 1 FROM product_categories WHERE id = $1)`,
	entity.RefSupplier: `SELECT EXISTS (
		SELECT 1 FROM persons pe JOIN person_categories pc ON pc.id = pe.person_category_id
		WHERE pe.id = $1 AND pc.code = '` + entity.PersonCategorySupplier + `')`,
	entity.RefCustomer:      `SELECT EXISTS (SELECT 1 FROM persons WHERE id = $1)`,
	entity.RefState:         `SELECT EXISTS (SELECT 1 FROM states WHERE id = $1)`,
	entity.RefLocation:      `SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)`,
	entity.RefPaymentMethod: `SELECT EXISTS (SELECT 1 FROM payment_methods WHERE id = $1)`,
	entity.RefProduct:       `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`,
	entity.RefActor:         `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
}

// Exists devuelve false para ids mal formados (no son uuid) en lugar de un error.
func (r *ReferenceRepo) Exists(ctx context.Context, kind entity.RefKind, id string) (bool, error) {
	query, ok := existsQueries[kind]
	if !ok {
		return false, fmt.Errorf("tipo de referencia desconocido %q", kind)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists %s: %w", kind, err)
	}
	return exists, nil
}
