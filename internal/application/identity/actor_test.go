package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/domain"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
)

const systemID = "00000000-0000-0000-0000-000000000000"

func TestResolve_FallsBackToSystem(t *testing.T) {
	store := memory.NewStore()
	r := NewActorResolver(entity.Actor{ID: systemID, Name: "Sistema"}, store.Repos().Refs)

	id, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, systemID, id)
}

func TestResolve_KnownAndUnknownUsers(t *testing.T) {
	store := memory.NewStore()
	store.AddActor(entity.Actor{ID: "u-1", Name: "Cajera"})
	r := NewActorResolver(entity.Actor{ID: systemID}, store.Repos().Refs)

	id, err := r.Resolve(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id)

	_, err = r.Resolve(context.Background(), "u-404")
	assert.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestEnsureSystemActor_Idempotent(t *testing.T) {
	store := memory.NewStore()
	actor := entity.Actor{ID: systemID, Name: "Sistema"}

	created, err := EnsureSystemActor(context.Background(), store.Actors(), actor)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureSystemActor(context.Background(), store.Actors(), actor)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestEnsureSystemActor_RejectsNonUUID(t *testing.T) {
	_, err := EnsureSystemActor(context.Background(), memory.NewStore().Actors(), entity.Actor{ID: "sistema"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
