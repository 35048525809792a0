package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abplan/abplan-backend/internal/compliance/domain"
)

type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateValid      State = "valid"
	StateInvalid    State = "invalid"
	StateError      State = "error"
)

// Engine is the part of the compliance engine the revalidator needs.
type Engine interface {
	ValidateRoomEquipment(ctx context.Context, req domain.ValidationRequest) (*domain.ValidationResponse, error)
}

// Cache stores verdicts by signature. Implemented by repository.VerdictCache.
type Cache interface {
	Get(ctx context.Context, projectID, signature string) (*domain.Verdict, error)
	Latest(ctx context.Context, projectID string) (*domain.Verdict, error)
	Put(ctx context.Context, v *domain.Verdict) error
}

// Status is a snapshot of a revalidator.
type Status struct {
	State     State           `json:"state"`
	Signature string          `json:"signature,omitempty"`
	Verdict   *domain.Verdict `json:"verdict,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// Revalidator owns the compliance verdict of one project editing session.
// Calls for the same signature share one engine request; results of calls
// started before the newest applied one are discarded.
type Revalidator struct {
	projectID string
	engine    Engine
	cache     Cache
	log       *zap.Logger
	now       func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	verdict  *domain.Verdict
	lastErr  error
	inflight int
	issued   uint64
	applied  uint64
}

// NewRevalidator builds a revalidator. cache may be nil.
func NewRevalidator(projectID string, engine Engine, cache Cache, log *zap.Logger) *Revalidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Revalidator{
		projectID: projectID,
		engine:    engine,
		cache:     cache,
		log:       log.With(zap.String("project_id", projectID)),
		now:       time.Now,
	}
}

// Restore adopts the latest cached verdict of the project when none is held.
func (r *Revalidator) Restore(ctx context.Context) bool {
	if r.cache == nil {
		return false
	}
	v, err := r.cache.Latest(ctx, r.projectID)
	if err != nil {
		if !errors.Is(err, domain.ErrVerdictNotFound) {
			r.log.Warn("failed to read cached verdict", zap.Error(err))
		}
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.verdict != nil {
		return false
	}
	r.verdict = v
	return true
}

// Validate obtains the verdict for req, whose state has the given signature.
// On failure the previous verdict is kept and the error is recorded.
//
// The shared engine call is detached from every caller's cancellation. A
// caller whose ctx ends stops waiting; the result is still recorded when it
// arrives.
func (r *Revalidator) Validate(ctx context.Context, req domain.ValidationRequest, signature string) (*domain.Verdict, error) {
	r.mu.Lock()
	r.issued++
	seq := r.issued
	r.inflight++
	r.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := r.group.DoChan(signature, func() (any, error) {
		return r.compute(detached, req, signature)
	})

	select {
	case res := <-ch:
		return r.record(seq, signature, res)
	case <-ctx.Done():
		go func() { _, _ = r.record(seq, signature, <-ch) }()
		return nil, ctx.Err()
	}
}

// record applies the outcome of call seq unless a newer one was applied.
func (r *Revalidator) record(seq uint64, signature string, res singleflight.Result) (*domain.Verdict, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inflight--
	if seq <= r.applied {
		r.log.Debug("discarding outdated validation result", zap.Uint64("seq", seq))
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Verdict), nil
	}
	r.applied = seq

	if res.Err != nil {
		r.lastErr = res.Err
		r.log.Warn("compliance validation failed", zap.String("signature", signature), zap.Error(res.Err))
		return nil, res.Err
	}
	v := res.Val.(*domain.Verdict)
	r.verdict = v
	r.lastErr = nil
	r.log.Info("compliance verdict updated",
		zap.String("signature", signature),
		zap.String("overall_status", v.Response.GlobalCompliance.OverallStatus),
		zap.Bool("shared", res.Shared),
	)
	return v, nil
}

func (r *Revalidator) compute(ctx context.Context, req domain.ValidationRequest, signature string) (*domain.Verdict, error) {
	if r.cache != nil {
		v, err := r.cache.Get(ctx, r.projectID, signature)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, domain.ErrVerdictNotFound) {
			r.log.Warn("verdict cache unavailable", zap.Error(err))
		}
	}

	resp, err := r.engine.ValidateRoomEquipment(ctx, req)
	if err != nil {
		return nil, err
	}
	v := &domain.Verdict{
		ProjectID:  r.projectID,
		Signature:  signature,
		Response:   *resp,
		ComputedAt: r.now().UTC(),
	}

	if r.cache != nil {
		if err := r.cache.Put(ctx, v); err != nil {
			r.log.Warn("failed to cache verdict", zap.Error(err))
		}
	}
	return v, nil
}

// IsStale reports whether the held verdict was computed for a state other
// than the one with signature current. Without a verdict nothing is stale.
func (r *Revalidator) IsStale(current string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verdict != nil && r.verdict.Signature != current
}

func (r *Revalidator) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stateLocked()
}

func (r *Revalidator) stateLocked() State {
	switch {
	case r.inflight > 0:
		return StateValidating
	case r.lastErr != nil:
		return StateError
	case r.verdict == nil:
		return StateIdle
	case r.verdict.Compliant():
		return StateValid
	default:
		return StateInvalid
	}
}

// Verdict returns the last good verdict, or nil.
func (r *Revalidator) Verdict() *domain.Verdict {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.verdict
}

func (r *Revalidator) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Revalidator) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Status{State: r.stateLocked(), Verdict: r.verdict}
	if r.verdict != nil {
		st.Signature = r.verdict.Signature
	}
	if r.lastErr != nil {
		st.Error = r.lastErr.Error()
	}
	return st
}

// Reset forgets the held verdict, e.g. after a project purge.
func (r *Revalidator) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdict = nil
	r.lastErr = nil
	r.applied = r.issued
}
