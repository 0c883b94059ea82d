package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nudger/internal/broadcast"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type fakeIdentity struct {
	mu        sync.Mutex
	userID    string
	signedOut bool
	ids       *broadcast.Value[string]
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{ids: broadcast.New("")}
}

func (f *fakeIdentity) set(userID string, signedOut bool) {
	f.mu.Lock()
	f.userID, f.signedOut = userID, signedOut
	f.mu.Unlock()
	f.ids.Store(userID)
}

func (f *fakeIdentity) CurrentUserID() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userID, f.userID != ""
}

func (f *fakeIdentity) HasSignedOut() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signedOut
}

func (f *fakeIdentity) UserIDs(ctx context.Context) <-chan string {
	ch, _ := f.ids.Subscribe(ctx)
	return ch
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	err      error
	changes  *broadcast.Value[uint64]
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{profiles: map[string]*models.UserProfile{}, changes: broadcast.New[uint64](0)}
}

func (f *fakeProfiles) put(p *models.UserProfile) {
	f.mu.Lock()
	f.profiles[p.UserID] = p
	f.mu.Unlock()
	f.changes.Store(f.changes.Load() + 1)
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfiles) Changes(ctx context.Context) <-chan uint64 {
	ch, _ := f.changes.Subscribe(ctx)
	return ch
}

func completeProfile(userID string) *models.UserProfile {
	return &models.UserProfile{
		UserID:             userID,
		Goals:              models.Goals{ShortTerm: "run", LongTerm: "marathon"},
		Persona:            models.PersonaHarshCritic,
		OnboardingComplete: true,
		SessionExpiresAt:   now.Add(28 * 24 * time.Hour),
	}
}

func existing(found bool) ExistingUserCheck {
	return func(context.Context) (bool, error) { return found, nil }
}

func TestResolve_Decisions(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		signedOut bool
		existing  bool
		profile   *models.UserProfile
		want      State
	}{
		{name: "first launch", want: NeedsSignUp},
		{name: "signed out", signedOut: true, want: NeedsSignIn},
		{name: "signed out beats fresh device", signedOut: true, existing: false, want: NeedsSignIn},
		{name: "deleted without sign-out, data left", existing: true, want: NeedsSignIn},
		{name: "signed in without profile", userID: "u1", want: NeedsOnboarding},
		{
			name:    "onboarding not finished",
			userID:  "u1",
			profile: &models.UserProfile{UserID: "u1", Goals: models.Goals{ShortTerm: "a", LongTerm: "b"}},
			want:    NeedsOnboarding,
		},
		{
			name:   "blank goals",
			userID: "u1",
			profile: &models.UserProfile{
				UserID: "u1", OnboardingComplete: true,
				Goals:            models.Goals{ShortTerm: "run", LongTerm: " "},
				SessionExpiresAt: now.Add(time.Hour),
			},
			want: NeedsOnboarding,
		},
		{
			name:   "expired profile",
			userID: "u1",
			profile: func() *models.UserProfile {
				p := completeProfile("u1")
				p.SessionExpiresAt = now.Add(-time.Second)
				return p
			}(),
			want: NeedsOnboarding,
		},
		{name: "ready", userID: "u1", profile: completeProfile("u1"), want: Ready},
		{name: "signed-out flag ignored once signed in", userID: "u1", signedOut: true, profile: completeProfile("u1"), want: Ready},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := newFakeIdentity()
			id.set(tt.userID, tt.signedOut)
			profiles := newFakeProfiles()
			if tt.profile != nil {
				profiles.put(tt.profile)
			}

			r := NewResolver(id, profiles, existing(tt.existing), WithClock(func() time.Time { return now }))
			got, err := r.Resolve(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, r.State())
		})
	}
}

func TestResolve_InitialStateIsLoading(t *testing.T) {
	r := NewResolver(newFakeIdentity(), newFakeProfiles(), existing(false))
	assert.Equal(t, Loading, r.State())
	assert.EqualValues(t, 0, r.Evaluations())
}

func TestResolve_ErrorsKeepPublishedState(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")

	id := newFakeIdentity()
	r := NewResolver(id, newFakeProfiles(), func(context.Context) (bool, error) { return false, boom })
	got, err := r.Resolve(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Loading, got)

	profiles := newFakeProfiles()
	profiles.put(completeProfile("u1"))
	id.set("u1", false)
	r = NewResolver(id, profiles, existing(false), WithClock(func() time.Time { return now }))
	got, err = r.Resolve(ctx)
	require.NoError(t, err)
	require.Equal(t, Ready, got)

	profiles.mu.Lock()
	profiles.err = boom
	profiles.mu.Unlock()
	got, err = r.Resolve(ctx)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Ready, got)
}

func TestSubscribe_PublishesOnlyChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := newFakeIdentity()
	r := NewResolver(id, newFakeProfiles(), existing(false))
	states := r.Subscribe(ctx)
	assert.Equal(t, Loading, <-states)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, NeedsSignUp, <-states)
	select {
	case s := <-states:
		t.Fatalf("unexpected publish of %s", s)
	default:
	}
	assert.EqualValues(t, 3, r.Evaluations())
}

func TestRun_OneEvaluationPerEmission(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := newFakeIdentity()
	profiles := newFakeProfiles()
	r := NewResolver(id, profiles, existing(false), WithClock(func() time.Time { return now }))
	states := r.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// both streams deliver their current value on subscription
	require.Eventually(t, func() bool { return r.Evaluations() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, NeedsSignUp, r.State())

	id.set("u1", false)
	require.Eventually(t, func() bool { return r.State() == NeedsOnboarding }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, r.Evaluations(), int64(3))

	profiles.put(completeProfile("u1"))
	require.Eventually(t, func() bool { return r.State() == Ready }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, r.Evaluations(), int64(4))

	var seen []State
	for len(seen) == 0 || seen[len(seen)-1] != Ready {
		seen = append(seen, <-states)
	}
	assert.NotContains(t, seen[1:], Loading, "no transient loading after the first pass")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "NeedsSignIn", NeedsSignIn.String())
	assert.Equal(t, "Unknown", State(42).String())
}
