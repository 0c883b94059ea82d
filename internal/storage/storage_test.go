package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nudger.db")

	repos, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)

	task := &models.Task{ID: 1, OwnerID: "u1", Title: "persist me", Deadline: models.DeadlineNone,
		CreatedAt: time.UnixMilli(1_760_000_000_000).UTC()}
	require.NoError(t, repos.Tasks.Create(ctx, task))
	require.NoError(t, repos.Settings.Set(ctx, "signed_out", []byte("1")))
	require.NoError(t, repos.Close())

	reopened, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	got, err := reopened.Tasks.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "persist me", got.Title)

	v, err := reopened.Settings.Get(ctx, "signed_out")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	require.Error(t, err)
}
