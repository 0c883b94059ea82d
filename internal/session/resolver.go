// Package session decides which flow the user lands in. The Resolver owns
// no persisted state: every decision is recomputed from the identity and
// profile sources.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/nudger/internal/broadcast"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
)

// IdentitySource is the part of the identity ledger the resolver reads.
type IdentitySource interface {
	CurrentUserID() (string, bool)
	HasSignedOut() bool
	// UserIDs streams the live user id, starting with the current one.
	UserIDs(ctx context.Context) <-chan string
}

// ProfileSource is the part of the profile store the resolver reads.
type ProfileSource interface {
	// Get returns common.ErrNotFound when there is no profile.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	// Changes emits after every profile write, starting immediately.
	Changes(ctx context.Context) <-chan uint64
}

// ExistingUserCheck reports whether anybody ever used the app on this
// device.
type ExistingUserCheck func(ctx context.Context) (bool, error)

type Option func(*Resolver)

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func WithLogger(log logging.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

type Resolver struct {
	identity IdentitySource
	profiles ProfileSource
	existing ExistingUserCheck
	now      func() time.Time
	log      logging.Logger

	mu          sync.Mutex
	state       *broadcast.Value[State]
	evaluations atomic.Int64
}

func NewResolver(identity IdentitySource, profiles ProfileSource, existing ExistingUserCheck, opts ...Option) *Resolver {
	r := &Resolver{
		identity: identity,
		profiles: profiles,
		existing: existing,
		now:      time.Now,
		log:      logging.NewNop(),
		state:    broadcast.New(Loading),
	}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.With("component", "resolver")
	return r
}

// Resolve runs one decision pass and publishes the result when it differs
// from the current state. On error the published state is left unchanged.
func (r *Resolver) Resolve(ctx context.Context) (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.evaluate(ctx)
	if err != nil {
		r.log.Error(ctx, "session resolution failed", "err", err)
		return r.state.Load(), err
	}
	if prev := r.state.Load(); prev != s {
		r.state.Store(s)
		r.log.Info(ctx, "session state changed", "from", prev, "to", s)
	}
	return s, nil
}

func (r *Resolver) evaluate(ctx context.Context) (State, error) {
	r.evaluations.Add(1)

	userID, ok := r.identity.CurrentUserID()
	if !ok {
		if r.identity.HasSignedOut() {
			return NeedsSignIn, nil
		}
		if r.existing == nil {
			return NeedsSignUp, nil
		}
		found, err := r.existing(ctx)
		if err != nil {
			return Loading, err
		}
		if found {
			return NeedsSignIn, nil
		}
		return NeedsSignUp, nil
	}

	p, err := r.profiles.Get(ctx, userID)
	if errors.Is(err, common.ErrNotFound) {
		return NeedsOnboarding, nil
	}
	if err != nil {
		return Loading, err
	}
	// an expired profile counts as absent
	if p.Expired(r.now()) || p.NeedsOnboarding() {
		return NeedsOnboarding, nil
	}
	return Ready, nil
}

// Run re-resolves once per emission of either upstream stream until ctx is
// done or both streams end. Resolution errors are logged and do not stop
// the loop.
func (r *Resolver) Run(ctx context.Context) {
	ids := r.identity.UserIDs(ctx)
	changes := r.profiles.Changes(ctx)

	for ids != nil || changes != nil {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ids:
			if !ok {
				ids = nil
				continue
			}
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
		}
		_, _ = r.Resolve(ctx)
	}
}

// State returns the last published state.
func (r *Resolver) State() State {
	return r.state.Load()
}

// Subscribe streams the published state, starting with the current one.
// Only changes are published.
func (r *Resolver) Subscribe(ctx context.Context) <-chan State {
	ch, _ := r.state.Subscribe(ctx)
	return ch
}

// Evaluations counts decision passes so far.
func (r *Resolver) Evaluations() int64 {
	return r.evaluations.Load()
}

func (r *Resolver) Close() {
	r.state.Close()
}
