package module

import (
	"context"

	"github.com/KLubina/Modul-335/core"
)

// Mode tells ListState.Save whether the form creates or edits a Module.
type Mode int

const (
	ModeAdd Mode = iota
	ModeEdit
)

// ListState backs the module list screen: it holds the live list for the screen's lifetime
// and forwards the form's requests.
type ListState struct {
	svc       *Service
	validator *Validator
	all       *core.Subscription[[]Module]
}

// NewListState binds the live list right away. Close it when the screen goes away.
func NewListState(ctx context.Context, svc *Service, validator *Validator) *ListState {
	return &ListState{
		svc:       svc,
		validator: validator,
		all:       svc.QueryAll(ctx),
	}
}

// AllModules emits the ordered list on bind and after every change.
func (s *ListState) AllModules() <-chan []Module {
	return s.all.C()
}

// Err returns the storage error that ended AllModules, if any.
func (s *ListState) Err() error {
	return s.all.Err()
}

func (s *ListState) Insert(m Module) error { return s.svc.Insert(m) }

func (s *ListState) Update(m Module) error { return s.svc.Update(m) }

func (s *ListState) Delete(m Module) error { return s.svc.Delete(m) }

func (s *ListState) Validate(number, title, zpNote, lbNote string) error {
	return s.validator.Validate(number, title, zpNote, lbNote)
}

// Save validates the form and queues an insert (ModeAdd) or an update (ModeEdit).
// It returns the saved Module, or the *core.ValidationError of the first invalid field.
func (s *ListState) Save(f Form, mode Mode) (Module, error) {
	if err := s.validator.ValidateForm(f); err != nil {
		return Module{}, err
	}
	m, err := f.Module()
	if err != nil {
		return Module{}, err
	}
	if mode == ModeEdit {
		err = s.svc.Update(m)
	} else {
		err = s.svc.Insert(m)
	}
	if err != nil {
		return Module{}, err
	}
	return m, nil
}

func (s *ListState) Close() {
	s.all.Close()
}
