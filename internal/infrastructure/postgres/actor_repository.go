package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

var _ repository.ActorRepository = (*ActorRepo)(nil)

// ActorRepo persistencia mínima de usuarios sobre PostgreSQL.
type ActorRepo struct {
	pool *pgxpool.Pool
}

// NewActorRepository construye el adaptador de persistencia para actores.
func NewActorRepository(pool *pgxpool.Pool) *ActorRepo {
	return &ActorRepo{pool: pool}
}

// EnsureActor inserta el usuario si no existe; no modifica uno existente.
func (r *ActorRepo) EnsureActor(ctx context.Context, a entity.Actor, passwordHash string) (bool, error) {
	query := `
		INSERT INTO users (id, name, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, a.ID, a.Name, passwordHash)
	if err != nil {
		return false, fmt.Errorf("ensure actor: %w", mapError(err))
	}
	return cmd.RowsAffected() == 1, nil
}
