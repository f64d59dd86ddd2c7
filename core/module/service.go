package module

import (
	"context"
	"errors"
	"sync"

	"github.com/KLubina/Modul-335/core"
)

var (
	// errors
	ErrNotFound      = errors.New("module not found")
	ErrServiceClosed = errors.New("module service closed")
)

type (
	Repository interface {
		// InsertOrReplace upserts m by its Number.
		InsertOrReplace(ctx context.Context, m Module) error
		// Update overwrites the Module with m's Number; it is a no-op if there is none.
		Update(ctx context.Context, m Module) error
		// Delete removes the Module with m's Number; it is a no-op if there is none.
		Delete(ctx context.Context, m Module) error
		// ListModules returns all Modules ordered by Number (byte-wise).
		ListModules(ctx context.Context) ([]Module, error)
		GetModule(ctx context.Context, number string) (Module, error)
		// QueryAll emits ListModules now and after every write.
		QueryAll(ctx context.Context) *core.Subscription[[]Module]
		// QueryByNumber emits the Module (nil when absent) now and after every write.
		QueryByNumber(ctx context.Context, number string) *core.Subscription[*Module]
	}

	op int

	task struct {
		op      op
		mod     Module
		flushed chan struct{}
	}

	// Service mediates between the surfaces and a Repository.
	// Writes are queued and applied in order by a single background goroutine.
	Service struct {
		repo   Repository
		logger core.Logger

		mu     sync.Mutex
		cond   *sync.Cond
		queue  []task
		closed bool
		done   chan struct{}
	}
)

const (
	opInsert op = iota
	opUpdate
	opDelete
	opFlush
)

func (o op) String() string {
	switch o {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	default:
		return "flush"
	}
}

func NewService(repo Repository, logger core.Logger) *Service {
	svc := &Service{
		repo:   repo,
		logger: logger,
		done:   make(chan struct{}),
	}
	svc.cond = sync.NewCond(&svc.mu)
	go svc.run()
	return svc
}

func (svc *Service) enqueue(t task) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.closed {
		return ErrServiceClosed
	}
	svc.queue = append(svc.queue, t)
	svc.cond.Signal()
	return nil
}

func (svc *Service) run() {
	defer close(svc.done)
	for {
		svc.mu.Lock()
		for len(svc.queue) == 0 && !svc.closed {
			svc.cond.Wait()
		}
		if len(svc.queue) == 0 { // closed & drained
			svc.mu.Unlock()
			return
		}
		t := svc.queue[0]
		svc.queue[0] = task{}
		svc.queue = svc.queue[1:]
		svc.mu.Unlock()

		svc.exec(t)
	}
}

// exec applies one write. Writes run to completion: no timeout, no cancellation.
func (svc *Service) exec(t task) {
	ctx := context.Background()
	var err error
	switch t.op {
	case opInsert:
		err = svc.repo.InsertOrReplace(ctx, t.mod)
	case opUpdate:
		err = svc.repo.Update(ctx, t.mod)
	case opDelete:
		err = svc.repo.Delete(ctx, t.mod)
	case opFlush:
		close(t.flushed)
		return
	}
	if err != nil {
		svc.logger.Error("module "+t.op.String()+" failed", err, t.mod)
	}
}

// Insert queues an upsert of m and returns right away.
func (svc *Service) Insert(m Module) error {
	return svc.enqueue(task{op: opInsert, mod: m})
}

// Update queues an update of m and returns right away.
func (svc *Service) Update(m Module) error {
	return svc.enqueue(task{op: opUpdate, mod: m})
}

// Delete queues the removal of m and returns right away.
func (svc *Service) Delete(m Module) error {
	return svc.enqueue(task{op: opDelete, mod: m})
}

// Flush waits until every write queued before the call has been applied.
func (svc *Service) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	if err := svc.enqueue(task{op: opFlush, flushed: flushed}); err != nil {
		return err
	}
	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting writes and waits for the queued ones to be applied.
func (svc *Service) Close(ctx context.Context) error {
	svc.mu.Lock()
	svc.closed = true
	svc.cond.Broadcast()
	svc.mu.Unlock()

	select {
	case <-svc.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (svc *Service) QueryAll(ctx context.Context) *core.Subscription[[]Module] {
	return svc.repo.QueryAll(ctx)
}

func (svc *Service) QueryByNumber(ctx context.Context, number string) *core.Subscription[*Module] {
	return svc.repo.QueryByNumber(ctx, core.CleanString(number))
}

func (svc *Service) List(ctx context.Context) ([]Module, error) {
	return svc.repo.ListModules(ctx)
}

func (svc *Service) Get(ctx context.Context, number string) (Module, error) {
	return svc.repo.GetModule(ctx, core.CleanString(number))
}
