package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
	"github.com/dmitrijs2005/nudger/internal/repositories/profiles"
	"github.com/dmitrijs2005/nudger/internal/repositories/tasks"
	"github.com/dmitrijs2005/nudger/internal/testutil"
	"github.com/stretchr/testify/require"
)

const testTTL = 28 * 24 * time.Hour

var testSecret = []byte("test-secret")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type env struct {
	db       *sql.DB
	clock    *fakeClock
	ledger   *IdentityLedger
	profiles *ProfileStore
	tasks    *TaskStore
	history  *AdviceHistory
}

func newLedger(t *testing.T, db *sql.DB, clock *fakeClock) *IdentityLedger {
	t.Helper()
	l, err := NewIdentityLedger(context.Background(), db, LedgerConfig{
		SessionSecret: testSecret,
		SessionTTL:    testTTL,
		Clock:         clock.Now,
	}, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

// newEnv wires every store over one migrated in-memory database.
func newEnv(t *testing.T) *env {
	t.Helper()

	db := testutil.NewDB(t)
	clock := newClock()
	log := logging.NewNop()

	ts, err := NewTaskStore(context.Background(), tasks.NewSQLiteRepository(db), clock.Now, log)
	require.NoError(t, err)
	t.Cleanup(ts.Close)

	ps := NewProfileStore(profiles.NewSQLiteRepository(db), testTTL, clock.Now, log)
	t.Cleanup(ps.Close)

	return &env{
		db:       db,
		clock:    clock,
		ledger:   newLedger(t, db, clock),
		profiles: ps,
		tasks:    ts,
		history:  NewAdviceHistory(messages.NewSQLiteRepository(db), clock.Now, log),
	}
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "stream closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for stream value")
	}
	var zero T
	return zero
}
