package inventory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o el contexto se cancela) no queda ningún efecto persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repos) error) error
}

// EventPublisher publica eventos de dominio después del commit.
// Los fallos de publicación no deshacen la operación; el adaptador los registra.
type EventPublisher interface {
	Publish(ctx context.Context, events ...entity.Event)
}
