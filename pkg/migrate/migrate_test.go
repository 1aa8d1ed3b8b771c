package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbebidas(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, Dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		raw, err := fs.ReadFile(migrationsFS, Dir+"/"+e.Name())
		require.NoError(t, err)
		body := string(raw)
		assert.Contains(t, body, "-- +goose Up", e.Name())
		assert.Contains(t, body, "-- +goose Down", e.Name())
	}
}

func TestEsquema_Restricciones(t *testing.T) {
	raw, err := fs.ReadFile(migrationsFS, Dir+"/20260101000001_init_schema.sql")
	require.NoError(t, err)
	schema := string(raw)

	for _, want := range []string{
		"CHECK (quantity >= 1)",
		"CHECK (unit_price >= 0)",
		"CHECK (price >= 0)",
		"REFERENCES products (id) ON DELETE RESTRICT",
		"REFERENCES users (id) ON DELETE CASCADE",
		"REFERENCES roles (id) ON DELETE RESTRICT",
	} {
		assert.True(t, strings.Contains(schema, want), "falta %q", want)
	}
}
