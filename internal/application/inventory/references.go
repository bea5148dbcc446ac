package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// Ref par (tipo, id) a verificar.
type Ref struct {
	Kind entity.RefKind
	ID   string
}

// CheckReferences verifica en orden que cada referencia exista.
// Devuelve ErrInvalidInput si falta un id y *domain.ReferenceError con la primera inexistente.
func CheckReferences(ctx context.Context, refs repository.ReferenceRepository, want ...Ref) error {
	for _, r := range want {
		if r.ID == "" {
			return fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, r.Kind)
		}
		ok, err := refs.Exists(ctx, r.Kind, r.ID)
		if err != nil {
			return fmt.Errorf("check %s: %w", r.Kind, err)
		}
		if !ok {
			return &domain.ReferenceError{Entity: string(r.Kind), ID: r.ID}
		}
	}
	return nil
}
