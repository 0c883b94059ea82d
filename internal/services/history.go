package services

import (
	"context"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
	"github.com/google/uuid"
)

// AdviceHistory is the append-only log of generated advice.
type AdviceHistory struct {
	repo messages.Repository
	now  Clock
	log  logging.Logger
}

func NewAdviceHistory(repo messages.Repository, clock Clock, log logging.Logger) *AdviceHistory {
	return &AdviceHistory{repo: repo, now: clock.orDefault(), log: log.With("component", "history")}
}

// Append stores m under a fresh id and returns it. A zero CreatedAt is set
// to now.
func (h *AdviceHistory) Append(ctx context.Context, m models.AdviceMessage) (string, error) {
	if m.UserID == "" {
		return "", common.ErrNotAuthenticated
	}
	m.ID = uuid.NewString()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = h.now().UTC()
	}
	if err := h.repo.Append(ctx, &m); err != nil {
		h.log.Error(ctx, "failed to append advice", "user_id", m.UserID, "err", err)
		return "", err
	}
	h.log.Debug(ctx, "advice appended", "id", m.ID, "trigger", m.Trigger)
	return m.ID, nil
}

// List returns the messages of userID matching f, newest first.
func (h *AdviceHistory) List(ctx context.Context, userID string, f messages.Filter) ([]models.AdviceMessage, error) {
	return h.repo.List(ctx, userID, f)
}

func (h *AdviceHistory) Get(ctx context.Context, id string) (*models.AdviceMessage, error) {
	return h.repo.Get(ctx, id)
}

// Clear deletes every message of userID.
func (h *AdviceHistory) Clear(ctx context.Context, userID string) (int64, error) {
	n, err := h.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	h.log.Info(ctx, "advice history cleared", "user_id", userID, "deleted", n)
	return n, nil
}
