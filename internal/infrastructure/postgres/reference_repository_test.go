package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

func TestExistsQueriesCoverEveryKind(t *testing.T) {
	kinds := []entity.RefKind{
		entity.RefCategory, entity.RefSupplier, entity.RefCustomer, entity.RefState,
		entity.RefLocation, entity.RefPaymentMethod, entity.RefProduct, entity.RefActor,
	}
	for _, k := range kinds {
		assert.Contains(t, existsQueries, k)
	}
	assert.Contains(t, existsQueries[entity.RefSupplier], "'SUPPLIER'")
}
