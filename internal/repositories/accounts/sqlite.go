package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/dbx"
	"github.com/dmitrijs2005/nudger/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, acc *models.Account) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (email, salt, verifier, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, acc.Email, acc.Salt, acc.Verifier, acc.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, email string) (*models.Account, error) {
	var (
		acc       models.Account
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT email, salt, verifier, created_at FROM accounts WHERE email = ?
	`, email).Scan(&acc.Email, &acc.Salt, &acc.Verifier, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	acc.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &acc, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE email = ?`, email).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return n > 0, nil
}
