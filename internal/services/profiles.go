package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/nudger/internal/broadcast"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/repositories/profiles"
)

// ProfileStore owns the per-user profiles. Every Save stamps a fresh soft
// session expiry of now+ttl.
type ProfileStore struct {
	mu      sync.Mutex
	repo    profiles.Repository
	ttl     time.Duration
	now     Clock
	log     logging.Logger
	changes *broadcast.Value[uint64]
}

func NewProfileStore(repo profiles.Repository, ttl time.Duration, clock Clock, log logging.Logger) *ProfileStore {
	return &ProfileStore{
		repo:    repo,
		ttl:     ttl,
		now:     clock.orDefault(),
		log:     log.With("component", "profiles"),
		changes: broadcast.New[uint64](0),
	}
}

// Get returns common.ErrNotFound when userID has no profile.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	return s.repo.Get(ctx, userID)
}

// Save upserts p. SessionExpiresAt and UpdatedAt are overwritten.
func (s *ProfileStore) Save(ctx context.Context, p *models.UserProfile) error {
	if p.UserID == "" {
		return common.ErrNotAuthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	saved := *p
	saved.UpdatedAt = now
	saved.SessionExpiresAt = now.Add(s.ttl)

	if err := s.repo.Save(ctx, &saved); err != nil {
		s.log.Error(ctx, "failed to save profile", "user_id", p.UserID, "err", err)
		return err
	}
	*p = saved

	s.log.Info(ctx, "profile saved", "user_id", p.UserID, "onboarding_complete", p.OnboardingComplete)
	s.publish()
	return nil
}

func (s *ProfileStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info(ctx, "profile cleared", "user_id", userID)
	s.publish()
	return nil
}

func (s *ProfileStore) Exists(ctx context.Context, userID string) (bool, error) {
	return s.repo.Exists(ctx, userID)
}

// AnyExists reports whether a profile was ever stored for anyone. It backs
// the existing-user check of the session resolver.
func (s *ProfileStore) AnyExists(ctx context.Context) (bool, error) {
	return s.repo.Any(ctx)
}

// Update loads the profile of userID, applies fn and saves the result.
// common.ErrNotFound if there is no profile to update.
func (s *ProfileStore) Update(ctx context.Context, userID string, fn func(p *models.UserProfile) error) (*models.UserProfile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "update of missing profile", "user_id", userID)
		}
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	if err := s.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// must hold mu
func (s *ProfileStore) publish() {
	s.changes.Store(s.changes.Load() + 1)
}

// Changes streams a sequence number bumped on every write. The current
// number is delivered first.
func (s *ProfileStore) Changes(ctx context.Context) <-chan uint64 {
	ch, _ := s.changes.Subscribe(ctx)
	return ch
}

func (s *ProfileStore) Close() {
	s.changes.Close()
}
