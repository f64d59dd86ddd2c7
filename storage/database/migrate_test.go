package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/KLubina/Modul-335/storage/database"
	"github.com/KLubina/Modul-335/testutil"
)

func TestRunMigrations(t *testing.T) {
	db := testutil.PrepareDB(t)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM modules`))
	assert.Zero(t, count)

	require.NoError(t, RunMigrations(db, testutil.Logger(), "down"))
	assert.Error(t, db.Get(&count, `SELECT COUNT(*) FROM modules`))

	require.NoError(t, Migrate(db, testutil.Logger()))
	assert.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM modules`))
}
