package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ZENODO_API_KEY", "key")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "https://sandbox.zenodo.org/api", cfg.ZenodoBaseURL)
	assert.Equal(t, "prereview-test-community", cfg.ZenodoCommunity)
	assert.Equal(t, "https://doi.org", cfg.DOIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, "*/5 * * * *", cfg.ArchiveProbeSchedule)
	assert.False(t, cfg.UsesDatabase())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	// envconfig prüft nur die Existenz der Variable
	t.Setenv("ZENODO_API_KEY", "")
	require.NoError(t, os.Unsetenv("ZENODO_API_KEY"))
	t.Setenv("SESSION_SECRET", "secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: 5433, DBUser: "u", DBPassword: "p", DBName: "prereview"}
	assert.True(t, cfg.UsesDatabase())
	assert.Equal(t, "host=db user=u password=p dbname=prereview port=5433 sslmode=disable", cfg.DSN())
}
