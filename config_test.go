package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	cfg := MySQLOptions(WithDatabase("heritage"), WithUsername("app"), WithPassword("s3cret"))
	assert.Equal(t, BackendMySQL, cfg.Type)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, "heritage", cfg.Database)
	require.NoError(t, cfg.Validate())

	cfg = SQLiteOptions("/tmp/heritage.db")
	assert.Equal(t, 1, cfg.MaxOpenConns)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrValidation)
	assert.ErrorIs(t, Config{Type: BackendJSON}.Validate(), ErrValidation)
	assert.ErrorIs(t, Config{Type: BackendPostgres, Host: "db"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Config{Type: "oracle"}.Validate(), ErrValidation)
	assert.NoError(t, Config{Type: BackendMongo, Host: "db", Database: "heritage"}.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "senstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"type: postgres\nhost: db.internal\nport: 5433\ndatabase: heritage\nssl_mode: require\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, "require", cfg.SSLMode)
	// defaults survive partial files
	assert.Equal(t, 25, cfg.MaxOpenConns)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
