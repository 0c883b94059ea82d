// Package accounts persists registered accounts (email plus hashed
// credential) in SQLite.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/nudger/internal/models"
)

type Repository interface {
	// Create registers acc; common.ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, acc *models.Account) error
	// Get returns common.ErrNotFound for unknown emails.
	Get(ctx context.Context, email string) (*models.Account, error)
	Exists(ctx context.Context, email string) (bool, error)
}
