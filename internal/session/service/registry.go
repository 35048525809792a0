package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultIdleTimeout = 30 * time.Minute

type entry struct {
	session  *Session
	lastUsed time.Time
}

// Registry holds the live editing sessions, one per project.
type Registry struct {
	ctx  context.Context
	deps Deps
	idle time.Duration
	log  *zap.Logger
	now  func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates a registry. Sessions inherit ctx's values; their
// writes are never cancelled by it.
func NewRegistry(ctx context.Context, deps Deps, idle time.Duration) *Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &Registry{
		ctx:      ctx,
		deps:     deps,
		idle:     idle,
		log:      deps.Logger,
		now:      time.Now,
		sessions: map[string]*entry{},
	}
}

// Open returns the project's session after (re)loading it from the store.
func (r *Registry) Open(ctx context.Context, projectID string) (*Session, Status, error) {
	s := r.session(projectID)
	st, err := s.Load(ctx)
	if err != nil {
		r.dropUnloaded(s)
		return nil, Status{}, err
	}
	return s, st, nil
}

// Acquire returns the project's session, loading it on first use.
func (r *Registry) Acquire(ctx context.Context, projectID string) (*Session, error) {
	s := r.session(projectID)
	if s.Loaded() {
		return s, nil
	}
	if _, err := s.Load(ctx); err != nil {
		r.dropUnloaded(s)
		return nil, err
	}
	return s, nil
}

// dropUnloaded forgets a session whose first load failed.
func (r *Registry) dropUnloaded(s *Session) {
	if s.Loaded() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[s.ProjectID()]; ok && e.session == s {
		delete(r.sessions, s.ProjectID())
	}
}

// Lookup returns the project's session only if one is live.
func (r *Registry) Lookup(projectID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[projectID]
	if !ok {
		return nil, false
	}
	e.lastUsed = r.now()
	return e.session, true
}

// Reload re-fetches a live session from the store. Projects without a live
// session are left alone.
func (r *Registry) Reload(ctx context.Context, projectID string) error {
	s, ok := r.Lookup(projectID)
	if !ok {
		return nil
	}
	_, err := s.Load(ctx)
	return err
}

// Purge empties a project through its session so that live state and
// stored state agree.
func (r *Registry) Purge(ctx context.Context, projectID string) error {
	s, err := r.Acquire(ctx, projectID)
	if err != nil {
		return err
	}
	_, err = s.Purge(ctx)
	return err
}

func (r *Registry) session(projectID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[projectID]
	if !ok {
		e = &entry{session: NewSession(r.ctx, projectID, r.deps)}
		r.sessions[projectID] = e
	}
	e.lastUsed = r.now()
	return e.session
}

// EvictIdle flushes and drops sessions unused for longer than the idle
// timeout. Sessions with unsaved changes that fail to flush are kept.
func (r *Registry) EvictIdle(ctx context.Context) int {
	cutoff := r.now().Add(-r.idle)

	r.mu.Lock()
	var idle []*Session
	for _, e := range r.sessions {
		if e.lastUsed.Before(cutoff) {
			idle = append(idle, e.session)
		}
	}
	r.mu.Unlock()

	evicted := 0
	for _, s := range idle {
		if err := s.Flush(ctx); err != nil {
			r.log.Warn("keeping idle session with unsaved changes",
				zap.String("project_id", s.ProjectID()), zap.Error(err))
			continue
		}
		r.mu.Lock()
		if e, ok := r.sessions[s.ProjectID()]; ok && e.session == s && e.lastUsed.Before(cutoff) {
			delete(r.sessions, s.ProjectID())
			evicted++
		}
		r.mu.Unlock()
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StartEviction runs EvictIdle on a cron schedule (with seconds field).
// Stop the returned cron on shutdown.
func (r *Registry) StartEviction(schedule string) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(r.ctx, time.Minute)
		defer cancel()
		if n := r.EvictIdle(ctx); n > 0 {
			r.log.Info("evicted idle sessions", zap.Int("count", n), zap.Int("live", r.Len()))
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	r.log.Info("session eviction scheduled", zap.String("schedule", schedule), zap.Duration("idle_timeout", r.idle))
	return c, nil
}

// Close flushes every live session.
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, e := range r.sessions {
		sessions = append(sessions, e.session)
	}
	r.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := s.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
