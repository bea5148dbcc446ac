package repository

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

// ReferenceRepository consultas de existencia sobre tablas de catálogo.
type ReferenceRepository interface {
	Exists(ctx context.Context, kind entity.RefKind, id string) (bool, error)
}

// ActorRepository persistencia mínima de actores (usuarios).
type ActorRepository interface {
	// EnsureActor inserta el actor si no existe. Devuelve true si lo creó.
	EnsureActor(ctx context.Context, a entity.Actor, passwordHash string) (bool, error)
}
