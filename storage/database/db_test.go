package database

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KLubina/Modul-335/core"
)

func TestDSN(t *testing.T) {
	t.Run("sqlite", func(t *testing.T) {
		dsn := sqliteDSN("data/../modules.db")
		path, query, ok := strings.Cut(dsn, "?")
		require.True(t, ok)
		assert.Equal(t, "modules.db", path)

		q, err := url.ParseQuery(query)
		require.NoError(t, err)
		assert.Equal(t, []string{"busy_timeout(5000)", "journal_mode(WAL)", "synchronous(NORMAL)"}, q["_pragma"])
	})

	t.Run("postgres", func(t *testing.T) {
		dsn := postgresDSN(core.DatabaseConfig{
			Host: "localhost", Port: "5432", User: "grades", Password: "s3cr3t", Name: "modules", DisableTLS: true,
		})
		u, err := url.Parse(dsn)
		require.NoError(t, err)
		assert.Equal(t, "postgres", u.Scheme)
		assert.Equal(t, "localhost:5432", u.Host)
		assert.Equal(t, "/modules", u.Path)
		assert.Equal(t, "disable", u.Query().Get("sslmode"))
		pwd, _ := u.User.Password()
		assert.Equal(t, "s3cr3t", pwd)
	})
}

func TestDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", Dialect(EngineSQLite))
	assert.Equal(t, "postgres", Dialect(EnginePostgres))
}

func TestOpen_unsupportedEngine(t *testing.T) {
	_, err := Open(core.DatabaseConfig{Engine: "oracle"})
	assert.EqualError(t, err, `unsupported database engine "oracle"`)
}
