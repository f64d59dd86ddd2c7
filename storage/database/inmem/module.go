package inmemdb

import (
	"context"
	"sort"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

type moduleRepository struct {
	db *moduleTable
}

var _ module.Repository = (*moduleRepository)(nil) // interface compliance check

func NewModuleRepository(db *DB) module.Repository {
	return &moduleRepository{db: db.module}
}

// copyModule detaches the grade pointers from the caller's Module.
func copyModule(m module.Module) module.Module {
	if m.ZPNote != nil {
		m.ZPNote = module.Grade(*m.ZPNote)
	}
	if m.LBNote != nil {
		m.LBNote = module.Grade(*m.LBNote)
	}
	return m
}

func (repo *moduleRepository) query() []module.Module {
	modules := make([]module.Module, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		modules = append(modules, copyModule(m))
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].Number < modules[j].Number })
	return modules
}

func (repo *moduleRepository) InsertOrReplace(ctx context.Context, m module.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	repo.db.table[m.Number] = copyModule(m)
	repo.db.Unlock()

	repo.db.changes.Notify()
	return nil
}

func (repo *moduleRepository) Update(ctx context.Context, m module.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	if _, ok := repo.db.table[m.Number]; ok {
		repo.db.table[m.Number] = copyModule(m)
	}
	repo.db.Unlock()

	repo.db.changes.Notify()
	return nil
}

func (repo *moduleRepository) Delete(ctx context.Context, m module.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.Lock()
	delete(repo.db.table, m.Number)
	repo.db.Unlock()

	repo.db.changes.Notify()
	return nil
}

func (repo *moduleRepository) ListModules(ctx context.Context) ([]module.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *moduleRepository) GetModule(ctx context.Context, number string) (module.Module, error) {
	if err := ctx.Err(); err != nil {
		return module.Module{}, err
	}
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[number]; ok {
		return copyModule(m), nil
	}
	return module.Module{}, module.ErrNotFound
}

func (repo *moduleRepository) QueryAll(ctx context.Context) *core.Subscription[[]module.Module] {
	return core.Watch(ctx, repo.db.changes, repo.ListModules)
}

func (repo *moduleRepository) QueryByNumber(ctx context.Context, number string) *core.Subscription[*module.Module] {
	return core.Watch(ctx, repo.db.changes, func(ctx context.Context) (*module.Module, error) {
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
