package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
	logsvc "github.com/KLubina/Modul-335/services/logger"
	"github.com/KLubina/Modul-335/storage/database"
)

// Wait is how long Next waits for an asynchronous delivery.
var Wait = 2 * time.Second

// Logger returns a core.Logger that discards everything.
func Logger() core.Logger {
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0), false)
}

// PrepareDB opens a migrated SQLite database in a temp dir, closed on cleanup.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := database.Open(core.DatabaseConfig{
		Engine: database.EngineSQLite,
		Path:   filepath.Join(t.TempDir(), "modules.db"),
	})
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, Logger()); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// CreateModule stores a Module straight through the repository.
func CreateModule(t *testing.T, repo module.Repository, number, title string, zpNote, lbNote *float64) module.Module {
	t.Helper()
	m := module.Module{Number: number, Title: title, ZPNote: zpNote, LBNote: lbNote}
	if err := repo.InsertOrReplace(context.Background(), m); err != nil {
		t.Fatalf("CreateModule() failed: %v", err)
	}
	return m
}

// Next waits for the next value of a subscription channel.
func Next[T any](t *testing.T, c <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-c:
		if !ok {
			t.Fatal("Next() failed: channel closed")
		}
		return v
	case <-time.After(Wait):
		t.Fatal("Next() failed: timed out")
	}
	var zero T
	return zero
}
