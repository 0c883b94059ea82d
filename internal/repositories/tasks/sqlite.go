package tasks

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

const taskColumns = `id, owner_id, title, priority, completed, flagged, deadline, created_at, completed_at`

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t           models.Task
		deadline    string
		createdAt   int64
		completedAt sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.OwnerID, &t.Title, &t.Priority, &t.Completed, &t.Flagged,
		&deadline, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	t.Deadline = models.ParseDeadline(deadline)
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	if completedAt.Valid {
		at := time.UnixMilli(completedAt.Int64).UTC()
		t.CompletedAt = &at
	}
	return &t, nil
}

func completedAtArg(t *models.Task) sql.NullInt64 {
	if t.CompletedAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.CompletedAt.UnixMilli(), Valid: true}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *models.Task) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Priority, t.Completed, t.Flagged, string(t.Deadline),
		t.CreatedAt.UnixMilli(), completedAtArg(t))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// Update never touches owner_id or created_at: ownership is fixed at creation.
func (r *SQLiteRepository) Update(ctx context.Context, t *models.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, priority = ?, completed = ?, flagged = ?, deadline = ?, completed_at = ?
		WHERE id = ?
	`, t.Title, t.Priority, t.Completed, t.Flagged, string(t.Deadline), completedAtArg(t), t.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	result := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) MaxID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM tasks`).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to get max task id: %w", err)
	}
	return id, nil
}
