package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  allowedOrigins:
    - http://localhost:5173
database:
  driver: mysql
  host: db.internal
  port: 3306
  user: chemviz
  password: secret
  name: chemviz
rateLimit:
  capacity: 50
  refillRate: 10
minio:
  enabled: true
  endpoint: minio.internal:9000
  bucketName: reports
openai:
  apiKey: sk-test
  model: gpt-4o-mini
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 50, cfg.RateLimit.Capacity)
	assert.True(t, cfg.Minio.Enabled)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "chemviz.db", cfg.Database.Path)
	assert.Equal(t, 20, cfg.RateLimit.Capacity)
	assert.Equal(t, 5, cfg.RateLimit.RefillRate)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestDSNSQLite(t *testing.T) {
	var cfg Config
	cfg.Database.Driver = "sqlite3"
	cfg.Database.Path = "/var/lib/chemviz/chemviz.db"
	assert.Equal(t, "/var/lib/chemviz/chemviz.db", cfg.DSN())
}

func TestDSNMySQL(t *testing.T) {
	var cfg Config
	cfg.Database.Driver = "mysql"
	cfg.Database.User = "chemviz"
	cfg.Database.Password = "secret"
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = 3306
	cfg.Database.Name = "chemviz"
	assert.Equal(t,
		"chemviz:secret@tcp(db.internal:3306)/chemviz?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.DSN())
}
