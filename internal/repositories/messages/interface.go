// Package messages persists the append-only advice history.
package messages

import (
	"context"

	"github.com/dmitrijs2005/nudger/internal/models"
)

// Filter narrows a history listing. Zero fields match everything.
type Filter struct {
	Trigger models.TriggerKind
	Persona models.Persona
}

type Repository interface {
	Append(ctx context.Context, m *models.AdviceMessage) error
	// List returns a user's messages, newest first.
	List(ctx context.Context, userID string, f Filter) ([]models.AdviceMessage, error)
	// Get returns common.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (*models.AdviceMessage, error)
	// DeleteByUser removes every message of userID and reports how many went.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
