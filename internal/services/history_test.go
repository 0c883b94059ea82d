package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdviceHistory_AppendListClear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.history.Append(ctx, models.AdviceMessage{Response: "orphan"})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)

	first, err := e.history.Append(ctx, models.AdviceMessage{
		UserID: "u1", Prompt: "p1", Response: "r1",
		Persona: models.PersonaHarshCritic, Trigger: models.TriggerManual,
	})
	require.NoError(t, err)
	e.clock.Advance(time.Minute)
	second, err := e.history.Append(ctx, models.AdviceMessage{
		UserID: "u1", Prompt: "p2", Response: "r2",
		Persona: models.PersonaColdPrincess, Trigger: models.TriggerAutoOnCreate,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	all, err := e.history.List(ctx, "u1", messages.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].ID)

	auto, err := e.history.List(ctx, "u1", messages.Filter{Trigger: models.TriggerAutoOnCreate})
	require.NoError(t, err)
	require.Len(t, auto, 1)
	assert.Equal(t, "r2", auto[0].Response)

	got, err := e.history.Get(ctx, first)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(e.clock.Now().Add(-time.Minute)))

	n, err := e.history.Clear(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = e.history.Get(ctx, first)
	require.ErrorIs(t, err, common.ErrNotFound)
}
