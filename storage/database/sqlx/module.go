package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

const (
	selectModules = `SELECT moduleNumber AS module_number, moduleTitle AS module_title, zpNote AS zp_note, lbNote AS lb_note FROM modules`

	upsertModule = `INSERT INTO modules (moduleNumber, moduleTitle, zpNote, lbNote) VALUES (?, ?, ?, ?)
ON CONFLICT (moduleNumber) DO UPDATE SET moduleTitle = excluded.moduleTitle, zpNote = excluded.zpNote, lbNote = excluded.lbNote`

	updateModule = `UPDATE modules SET moduleTitle = ?, zpNote = ?, lbNote = ? WHERE moduleNumber = ?`

	deleteModule = `DELETE FROM modules WHERE moduleNumber = ?`
)

// byte-wise ordering of module numbers, whatever the database collation
var orderings = map[string]string{
	"postgres": ` ORDER BY moduleNumber COLLATE "C" ASC`,
}

const defaultOrdering = ` ORDER BY moduleNumber ASC`

type moduleRow struct {
	Number string       `db:"module_number"`
	Title  string       `db:"module_title"`
	ZPNote null.Float64 `db:"zp_note"`
	LBNote null.Float64 `db:"lb_note"`
}

type moduleRepository struct {
	db      *sqlx.DB
	changes *core.Notifier
}

var _ module.Repository = (*moduleRepository)(nil) // interface compliance check

func NewModuleRepository(db *sqlx.DB) module.Repository {
	return &moduleRepository{db: db, changes: core.NewNotifier()}
}

func (repo *moduleRepository) toRow(m module.Module) moduleRow {
	return moduleRow{
		Number: m.Number,
		Title:  m.Title,
		ZPNote: null.Float64FromPtr(m.ZPNote),
		LBNote: null.Float64FromPtr(m.LBNote),
	}
}

func (repo *moduleRepository) fromRow(row moduleRow) module.Module {
	return module.Module{
		Number: row.Number,
		Title:  row.Title,
		ZPNote: row.ZPNote.Ptr(),
		LBNote: row.LBNote.Ptr(),
	}
}

func (repo *moduleRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	if _, err := repo.db.ExecContext(ctx, repo.db.Rebind(query), args...); err != nil {
		return err
	}
	repo.changes.Notify()
	return nil
}

func (repo *moduleRepository) InsertOrReplace(ctx context.Context, m module.Module) error {
	row := repo.toRow(m)
	if err := repo.exec(ctx, upsertModule, row.Number, row.Title, row.ZPNote, row.LBNote); err != nil {
		return errors.Wrap(err, "inserting module")
	}
	return nil
}

func (repo *moduleRepository) Update(ctx context.Context, m module.Module) error {
	row := repo.toRow(m)
	if err := repo.exec(ctx, updateModule, row.Title, row.ZPNote, row.LBNote, row.Number); err != nil {
		return errors.Wrap(err, "updating module")
	}
	return nil
}

func (repo *moduleRepository) Delete(ctx context.Context, m module.Module) error {
	if err := repo.exec(ctx, deleteModule, m.Number); err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return nil
}

func (repo *moduleRepository) ListModules(ctx context.Context) ([]module.Module, error) {
	ordering, ok := orderings[repo.db.DriverName()]
	if !ok {
		ordering = defaultOrdering
	}
	var rows []moduleRow
	if err := repo.db.SelectContext(ctx, &rows, selectModules+ordering); err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}
	modules := make([]module.Module, 0, len(rows))
	for _, row := range rows {
		modules = append(modules, repo.fromRow(row))
	}
	return modules, nil
}

func (repo *moduleRepository) GetModule(ctx context.Context, number string) (module.Module, error) {
	var row moduleRow
	err := repo.db.GetContext(ctx, &row, repo.db.Rebind(selectModules+` WHERE moduleNumber = ?`), number)
	if err != nil {
		if err == sql.ErrNoRows {
			return module.Module{}, module.ErrNotFound
		}
		return module.Module{}, errors.Wrap(err, "getting module")
	}
	return repo.fromRow(row), nil
}

func (repo *moduleRepository) QueryAll(ctx context.Context) *core.Subscription[[]module.Module] {
	return core.Watch(ctx, repo.changes, repo.ListModules)
}

func (repo *moduleRepository) QueryByNumber(ctx context.Context, number string) *core.Subscription[*module.Module] {
	return core.Watch(ctx, repo.changes, func(ctx context.Context) (*module.Module, error) {
		m, err := repo.GetModule(ctx, number)
		if err == module.ErrNotFound {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &m, nil
	})
}
