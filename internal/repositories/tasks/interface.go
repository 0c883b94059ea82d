// Package tasks persists user tasks in SQLite.
package tasks

import (
	"context"

	"github.com/dmitrijs2005/nudger/internal/models"
)

type Repository interface {
	// Create inserts t using the id already assigned to it.
	Create(ctx context.Context, t *models.Task) error
	// Update overwrites the mutable fields. common.ErrNotFound if no row matches.
	Update(ctx context.Context, t *models.Task) error
	// Delete hard-deletes a task. common.ErrNotFound if no row matches.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Task, error)
	// ListByOwner returns the owner's tasks, newest created first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error)
	// MaxID returns the highest id ever stored, or 0.
	MaxID(ctx context.Context) (int64, error)
}
