package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

// ActorResolver decide quién firma un movimiento: el usuario autenticado o el actor de sistema.
type ActorResolver struct {
	system entity.Actor
	refs   repository.ReferenceRepository
}

// NewActorResolver construye el resolver. refs puede ser nil para no validar la existencia del usuario.
func NewActorResolver(system entity.Actor, refs repository.ReferenceRepository) *ActorResolver {
	return &ActorResolver{system: system, refs: refs}
}

// System devuelve el actor de sistema.
func (r *ActorResolver) System() entity.Actor {
	return r.system
}

// Resolve devuelve actorID o el actor de sistema si viene vacío.
// Un usuario que no existe en la tabla de usuarios es una referencia inválida.
func (r *ActorResolver) Resolve(ctx context.Context, actorID string) (string, error) {
	if actorID == "" || actorID == r.system.ID {
		return r.system.ID, nil
	}
	if r.refs == nil {
		return actorID, nil
	}
	ok, err := r.refs.Exists(ctx, entity.RefActor, actorID)
	if err != nil {
		return "", fmt.Errorf("resolve actor: %w", err)
	}
	if !ok {
		return "", &domain.ReferenceError{Entity: string(entity.RefActor), ID: actorID}
	}
	return actorID, nil
}

// EnsureSystemActor crea la fila del actor de sistema si falta. Se invoca una vez al arrancar.
// La contraseña es un hash bcrypt de un valor aleatorio descartado: nadie puede autenticarse como sistema.
func EnsureSystemActor(ctx context.Context, repo repository.ActorRepository, actor entity.Actor) (bool, error) {
	if actor.ID == "" {
		return false, fmt.Errorf("%w: id de actor de sistema vacío", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(actor.ID); err != nil {
		return false, fmt.Errorf("%w: id de actor de sistema no es uuid", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash actor de sistema: %w", err)
	}
	created, err := repo.EnsureActor(ctx, actor, string(hash))
	if err != nil {
		return false, fmt.Errorf("ensure system actor: %w", err)
	}
	return created, nil
}
