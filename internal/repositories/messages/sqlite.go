package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/dbx"
	"github.com/dmitrijs2005/nudger/internal/models"
)

const messageColumns = `id, user_id, prompt, response, persona, trigger_kind, created_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*models.AdviceMessage, error) {
	var (
		m                models.AdviceMessage
		persona, trigger string
		createdAt        int64
	)
	if err := s.Scan(&m.ID, &m.UserID, &m.Prompt, &m.Response, &persona, &trigger, &createdAt); err != nil {
		return nil, err
	}
	m.Persona, _ = models.ParsePersona(persona)
	m.Trigger = models.TriggerKind(trigger)
	m.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &m, nil
}

func (r *SQLiteRepository) Append(ctx context.Context, m *models.AdviceMessage) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO advice_messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Prompt, m.Response, string(m.Persona), string(m.Trigger), m.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert advice message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, userID string, f Filter) ([]models.AdviceMessage, error) {
	var (
		where = []string{"user_id = ?"}
		args  = []any{userID}
	)
	if f.Trigger != "" {
		where = append(where, "trigger_kind = ?")
		args = append(args, string(f.Trigger))
	}
	if f.Persona != "" {
		where = append(where, "persona = ?")
		args = append(args, string(f.Persona))
	}

	query := `SELECT ` + messageColumns + ` FROM advice_messages WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_at DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select advice messages: %w", err)
	}
	defer rows.Close()

	result := make([]models.AdviceMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advice message: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate advice messages: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.AdviceMessage, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM advice_messages WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get advice message: %w", err)
	}
	return m, nil
}

func (r *SQLiteRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM advice_messages WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete advice messages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
