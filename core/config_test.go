package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf, err := loadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "DEV", conf.Env)
		assert.True(t, conf.Debug)
		assert.Equal(t, "en", conf.Locale)
		assert.Equal(t, "sqlite", conf.Database.Engine)
		assert.Equal(t, "modules.db", conf.Database.Path)
		assert.Equal(t, "localhost:5432", conf.Database.Address())
		assert.Equal(t, 5*time.Second, conf.Server.ShutdownTimeout)
	})

	t.Run("env vars", func(t *testing.T) {
		t.Setenv("ENV", "prod")
		t.Setenv("PROD_DEBUG", "false")
		t.Setenv("PROD_LOCALE", " DE ")
		t.Setenv("PROD_DATABASE_ENGINE", "Postgres")
		t.Setenv("PROD_SERVER_SHUTDOWNTIMEOUT", "30s")
		conf, err := loadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "PROD", conf.Env)
		assert.False(t, conf.Debug)
		assert.Equal(t, "de", conf.Locale)
		assert.Equal(t, "postgres", conf.Database.Engine)
		assert.Equal(t, 30*time.Second, conf.Server.ShutdownTimeout)
	})

	t.Run("dotenv file", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(root, "config"), 0o755))
		dotEnv := "QA_DATABASE_PATH=/tmp/qa.db\nQA_APPNAME=Noten\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, "config", ".env.qa"), []byte(dotEnv), 0o600))

		t.Setenv("ENV", "QA")
		// godotenv never overrides variables that are already set; register cleanups for the ones it sets
		t.Setenv("QA_DATABASE_PATH", "")
		t.Setenv("QA_APPNAME", "")
		require.NoError(t, os.Unsetenv("QA_DATABASE_PATH"))
		require.NoError(t, os.Unsetenv("QA_APPNAME"))

		conf, err := loadConfig(root)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/qa.db", conf.Database.Path)
		assert.Equal(t, "Noten", conf.AppName)
	})
}
