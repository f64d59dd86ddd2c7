package inmemdb

import (
	"sync"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

type (
	DB struct {
		module *moduleTable
	}

	moduleTable struct {
		sync.RWMutex
		table   map[string]module.Module
		changes *core.Notifier
	}
)

func Open() (*DB, error) {
	db := &DB{
		module: &moduleTable{
			table:   make(map[string]module.Module),
			changes: core.NewNotifier(),
		},
	}
	return db, nil
}
