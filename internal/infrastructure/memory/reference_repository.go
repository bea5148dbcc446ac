package memory

import (
	"context"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/domain/repository"
)

type refRepo struct {
	s  *Store
	tx bool
}

var _ repository.ReferenceRepository = (*refRepo)(nil)

func (r *refRepo) Exists(_ context.Context, kind entity.RefKind, id string) (bool, error) {
	var ok bool
	err := r.s.read(r.tx, func(st *state) error {
		switch kind {
		case entity.RefProduct:
			_, ok = st.products[id]
		case entity.RefActor:
			_, ok = st.actors[id]
		default:
			_, ok = st.refs[kind][id]
		}
		return nil
	})
	return ok, err
}

type actorRepo struct {
	s *Store
}

var _ repository.ActorRepository = (*actorRepo)(nil)

func (r *actorRepo) EnsureActor(_ context.Context, a entity.Actor, _ string) (bool, error) {
	created := false
	err := r.s.write(false, func(st *state) error {
		if _, ok := st.actors[a.ID]; ok {
			return nil
		}
		st.actors[a.ID] = a
		created = true
		return nil
	})
	return created, err
}
