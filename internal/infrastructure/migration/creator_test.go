package migration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates up and down file pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Create Sellers Table")
		require.NoError(t, err)

		assert.Contains(t, mf.UpPath, "create_sellers_table.up.sql")
		assert.Contains(t, mf.DownPath, "create_sellers_table.down.sql")

		_, err = os.Stat(mf.UpPath)
		assert.NoError(t, err)
		_, err = os.Stat(mf.DownPath)
		assert.NoError(t, err)
	})

	t.Run("listed after creation", func(t *testing.T) {
		dir := t.TempDir()

		_, err := CreateMigration(dir, "add users")
		require.NoError(t, err)

		migrations, err := ListMigrations(dir)
		require.NoError(t, err)
		require.Len(t, migrations, 1)
		assert.Contains(t, migrations[0], "add_users")
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Create Sellers", "create_sellers"},
		{"add-debt-column", "add_debt_column"},
		{"trailing space ", "trailing_space"},
		{"mixed CASE 123", "mixed_case_123"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeName(tt.input))
	}
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations("does/not/exist")
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
