package profiles

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

func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var (
		p                    models.UserProfile
		persona              string
		expiresAt, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, short_term_goal, long_term_goal, persona, onboarding_complete,
		       session_expires_at, updated_at
		FROM profiles WHERE user_id = ?
	`, userID).Scan(&p.UserID, &p.Goals.ShortTerm, &p.Goals.LongTerm, &persona,
		&p.OnboardingComplete, &expiresAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	// unknown persona names fall back to the default persona
	p.Persona, _ = models.ParsePersona(persona)
	p.SessionExpiresAt = time.UnixMilli(expiresAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p *models.UserProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, short_term_goal, long_term_goal, persona,
		                      onboarding_complete, session_expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			short_term_goal     = excluded.short_term_goal,
			long_term_goal      = excluded.long_term_goal,
			persona             = excluded.persona,
			onboarding_complete = excluded.onboarding_complete,
			session_expires_at  = excluded.session_expires_at,
			updated_at          = excluded.updated_at
	`, p.UserID, p.Goals.ShortTerm, p.Goals.LongTerm, string(p.Persona),
		p.OnboardingComplete, p.SessionExpiresAt.UnixMilli(), p.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check profile: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Any(ctx context.Context) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles)`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check profiles: %w", err)
	}
	return n == 1, nil
}
