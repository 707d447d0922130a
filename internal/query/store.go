// Package query keeps the last fetched todo list and coordinates
// re-fetching after mutations.
package query

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"tasklist/internal/todo"
)

// ListKey identifies the todo list query.
const ListKey = "todos"

var (
	// ErrClosed is returned by Fetch once the store has been closed.
	ErrClosed = errors.New("store closed")
	// ErrSuperseded is returned by a Fetch that started before a successful
	// write. Its result is dropped; the write's re-fetch replaces it.
	ErrSuperseded = errors.New("fetch superseded by a write")
)

// Service is the remote data-access layer.
type Service interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, d todo.Draft) (todo.Todo, error)
	Delete(ctx context.Context, id int) (int, error)
	ToggleComplete(ctx context.Context, t todo.Todo) (todo.Todo, error)
}

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Snapshot is a point-in-time copy of the list query state.
type Snapshot struct {
	Status    Status
	Todos     []todo.Todo
	Err       error
	Stale     bool
	Fetching  bool
	UpdatedAt time.Time
}

// Loading is true while the first fetch is in flight and nothing has been
// loaded yet.
func (s Snapshot) Loading() bool {
	return s.Fetching && s.UpdatedAt.IsZero()
}

// Failed is true when the last fetch failed.
func (s Snapshot) Failed() bool {
	return s.Status == StatusError
}

type Store struct {
	svc    Service
	logger *logrus.Entry
	group  singleflight.Group
	now    func() time.Time

	mu        sync.RWMutex
	todos     []todo.Todo
	err       error
	status    Status
	stale     bool
	inflight  int
	writes    uint64
	updatedAt time.Time
	closed    bool
}

func NewStore(svc Service, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Store{
		svc:    svc,
		logger: logger.WithField("component", "query"),
		now:    time.Now,
	}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Status:    s.status,
		Todos:     s.todos,
		Err:       s.err,
		Stale:     s.stale,
		Fetching:  s.inflight > 0,
		UpdatedAt: s.updatedAt,
	}
}

// Fetch loads the list. Callers arriving while a fetch is in flight share
// its result instead of issuing another request.
func (s *Store) Fetch(ctx context.Context) ([]todo.Todo, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.inflight++
	if s.updatedAt.IsZero() && s.status != StatusError {
		s.status = StatusLoading
	}
	gen := s.writes
	s.mu.Unlock()

	v, err, shared := s.group.Do(ListKey, func() (any, error) {
		s.logger.Debug("fetching todos")
		return s.svc.List(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.closed {
		return nil, ErrClosed
	}
	if gen != s.writes {
		s.logger.WithField("shared", shared).Debug("dropping fetch started before a write")
		return nil, ErrSuperseded
	}
	if err != nil {
		s.err = err
		s.status = StatusError
		s.logger.WithError(err).WithField("shared", shared).Warn("fetch failed")
		return nil, err
	}

	todos := v.([]todo.Todo)
	s.todos = todos
	s.err = nil
	s.status = StatusSuccess
	s.stale = false
	s.updatedAt = s.now()
	s.logger.WithFields(logrus.Fields{"count": len(todos), "shared": shared}).Debug("todos fetched")
	return todos, nil
}

// Invalidate marks the list stale. A fetch already in flight is no longer
// joined and its result is dropped, so the next Fetch hits the server and
// nothing older can replace what it returns.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.Forget(ListKey)
	s.writes++
	s.stale = true
	s.logger.Debug("todos invalidated")
}

func (s *Store) Create(ctx context.Context, d todo.Draft) (todo.Todo, error) {
	created, err := s.svc.Create(ctx, d)
	if err != nil {
		s.logger.WithError(err).Warn("create failed")
		return todo.Todo{}, err
	}
	s.Invalidate()
	return created, nil
}

func (s *Store) Delete(ctx context.Context, id int) (int, error) {
	deleted, err := s.svc.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("id", id).Warn("delete failed")
		return 0, err
	}
	s.Invalidate()
	return deleted, nil
}

func (s *Store) ToggleComplete(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	updated, err := s.svc.ToggleComplete(ctx, t)
	if err != nil {
		s.logger.WithError(err).WithField("id", t.ID).Warn("toggle failed")
		return todo.Todo{}, err
	}
	s.Invalidate()
	return updated, nil
}

// Close makes results of requests still in flight get discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
