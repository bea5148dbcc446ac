package migrate

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_EmbeddedMigrations(t *testing.T) {
	require.NoError(t, Validate(FS))
}

func TestValidate_RejectsBadFilename(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/create_things.sql": {Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	assert.Error(t, Validate(fsys))
}

func TestValidate_RejectsMissingDown(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/20250101000001_things.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
	}
	assert.Error(t, Validate(fsys))
}

func TestMigrations_LedgerConstraints(t *testing.T) {
	content := readMigration(t, "_create_inventory_and_ledger.sql")
	for _, sub := range []string{
		"CONSTRAINT uq_inventory_product_location UNIQUE (product_id, location_id)",
		"CHECK (available >= 0)",
		"CHECK (maximum >= minimum)",
		"CHECK (quantity >= 0)",
		"BEFORE UPDATE OR DELETE ON stock_movements",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestMigrations_PriceHistoryTieBreak(t *testing.T) {
	content := readMigration(t, "_create_products_and_prices.sql")
	assert.Contains(t, content, "seq           BIGSERIAL NOT NULL UNIQUE")
	assert.Contains(t, content, "(product_id, registered_at DESC, seq DESC)")
}

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	entries, err := fs.ReadDir(FS, Dir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			b, err := fs.ReadFile(FS, Dir+"/"+e.Name())
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("migration *%s not found", suffix)
	return ""
}
