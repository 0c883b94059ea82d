// Package profiles persists one onboarding profile per user id.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/nudger/internal/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when the user has no profile.
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	// Save inserts or replaces the profile of p.UserID.
	Save(ctx context.Context, p *models.UserProfile) error
	Delete(ctx context.Context, userID string) error
	Exists(ctx context.Context, userID string) (bool, error)
	// Any reports whether at least one profile is stored for any user.
	Any(ctx context.Context) (bool, error)
}
