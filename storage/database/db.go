package database

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/fs"
)

// Engines
const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineMemory   = "memory"
)

const migrationsDir = "migrations"

func init() {
	sqlx.BindDriver(EngineSQLite, sqlx.QUESTION)
}

// Open connects to the configured SQL engine and waits for it to answer.
func Open(conf core.DatabaseConfig) (*sqlx.DB, error) {
	var dsn string
	switch conf.Engine {
	case EngineSQLite:
		dsn = sqliteDSN(conf.Path)
	case EnginePostgres:
		dsn = postgresDSN(conf)
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Engine)
	}

	db, err := sqlx.Open(conf.Engine, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db, conf.Engine); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func sqliteDSN(path string) string {
	q := make(url.Values)
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return filepath.Clean(path) + "?" + q.Encode()
}

func postgresDSN(conf core.DatabaseConfig) string {
	sslMode := "require"
	if conf.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.User, conf.Password),
		Host:     conf.Address(),
		Path:     conf.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
// SQLite is local and gets a single attempt.
func ping(db *sqlx.DB, engine string) error {
	var err error
	maxAttempts := 30
	if engine == EngineSQLite {
		maxAttempts = 1
	}
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempts < maxAttempts {
			time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Dialect returns the goose dialect of a database engine.
func Dialect(engine string) string {
	if engine == EngineSQLite {
		return "sqlite3"
	}
	return engine
}

// Migrate brings the schema up to date.
func Migrate(db *sqlx.DB, logger core.Logger) error {
	return RunMigrations(db, logger, "up")
}

// RunMigrations runs a goose command (up, down, status, version, redo, ...) on the embedded migrations.
func RunMigrations(db *sqlx.DB, logger core.Logger, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	goose.SetLogger(gooseLogger{logger})
	if err := goose.SetDialect(Dialect(db.DriverName())); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := goose.Run(command, db.DB, migrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrating database (%s)", command)
	}
	return nil
}

// gooseLogger routes goose output to the app logger.
type gooseLogger struct {
	logger core.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatal(fmt.Sprintf(format, v...))
}
