package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/nudger/internal/broadcast"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/repositories/tasks"
)

// TaskStore owns task records. Ids are time based and strictly increasing,
// also across restarts.
type TaskStore struct {
	mu      sync.Mutex
	repo    tasks.Repository
	now     Clock
	log     logging.Logger
	lastID  int64
	changes *broadcast.Value[uint64]
}

func NewTaskStore(ctx context.Context, repo tasks.Repository, clock Clock, log logging.Logger) (*TaskStore, error) {
	last, err := repo.MaxID(ctx)
	if err != nil {
		return nil, err
	}
	return &TaskStore{
		repo:    repo,
		now:     clock.orDefault(),
		log:     log.With("component", "tasks"),
		lastID:  last,
		changes: broadcast.New[uint64](0),
	}, nil
}

func validateTask(t *models.Task) error {
	if t.OwnerID == "" {
		return common.ErrNotAuthenticated
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is blank", common.ErrValidation)
	}
	if t.Priority < models.PriorityNone || t.Priority > models.PriorityHigh {
		return fmt.Errorf("%w: priority %d out of range", common.ErrValidation, t.Priority)
	}
	switch t.Deadline {
	case models.DeadlineNone, models.DeadlineWithin24h, models.DeadlineWithinWeek:
	case "":
		t.Deadline = models.DeadlineNone
	default:
		return fmt.Errorf("%w: unknown deadline %q", common.ErrValidation, t.Deadline)
	}
	return nil
}

// must hold mu
func (s *TaskStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// Create assigns an id and a creation time to t, persists it and returns
// the id. A zero CreatedAt is set to now.
func (s *TaskStore) Create(ctx context.Context, t models.Task) (int64, error) {
	t.Title = strings.TrimSpace(t.Title)
	if err := validateTask(&t); err != nil {
		s.log.Warn(ctx, "task rejected", "reason", err)
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	t.ID = s.nextID()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.Completed && t.CompletedAt == nil {
		t.CompletedAt = &now
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		s.log.Error(ctx, "failed to create task", "err", err)
		return 0, err
	}

	s.log.Info(ctx, "task created", "task_id", t.ID, "owner", t.OwnerID)
	s.publish()
	return t.ID, nil
}

// Update overwrites the mutable fields of the stored task. The task must
// exist and belong to t.OwnerID, otherwise common.ErrNotFound. CompletedAt
// follows the completion flag.
func (s *TaskStore) Update(ctx context.Context, t models.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if err := validateTask(&t); err != nil {
		s.log.Warn(ctx, "task update rejected", "task_id", t.ID, "reason", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.repo.Get(ctx, t.ID)
	if err != nil {
		return err
	}
	if stored.OwnerID != t.OwnerID {
		return common.ErrNotFound
	}

	switch {
	case t.Completed && !stored.Completed:
		now := s.now().UTC()
		t.CompletedAt = &now
	case t.Completed:
		t.CompletedAt = stored.CompletedAt
	default:
		t.CompletedAt = nil
	}

	if err := s.repo.Update(ctx, &t); err != nil {
		return err
	}

	s.log.Info(ctx, "task updated", "task_id", t.ID, "completed", t.Completed, "flagged", t.Flagged)
	s.publish()
	return nil
}

func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "task deleted", "task_id", id)
	s.publish()
	return nil
}

// Get returns common.ErrNotFound for unknown ids.
func (s *TaskStore) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.Get(ctx, id)
}

// ListByOwner returns the tasks of ownerID, newest first.
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID string) ([]models.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// must hold mu
func (s *TaskStore) publish() {
	s.changes.Store(s.changes.Load() + 1)
}

// StreamByOwner emits the task list of the latest owner received on owners,
// again after every task write. An empty owner yields an empty list. A slow
// reader only sees the latest list. The stream ends when ctx is done or
// owners is closed; list failures are logged and skipped.
func (s *TaskStore) StreamByOwner(ctx context.Context, owners <-chan string) <-chan []models.Task {
	out := make(chan []models.Task, 1)
	changes, subID := s.changes.Subscribe(ctx)

	go func() {
		defer close(out)
		defer s.changes.Unsubscribe(subID)

		var (
			owner string
			ready bool
		)
		for {
			select {
			case <-ctx.Done():
				return
			case o, ok := <-owners:
				if !ok {
					return
				}
				owner, ready = o, true
			case _, ok := <-changes:
				if !ok {
					return
				}
				if !ready {
					continue
				}
			}

			list := make([]models.Task, 0)
			if owner != "" {
				var err error
				if list, err = s.repo.ListByOwner(ctx, owner); err != nil {
					s.log.Error(ctx, "failed to refresh task stream", "owner", owner, "err", err)
					continue
				}
			}

			select {
			case <-out:
			default:
			}
			out <- list
		}
	}()

	return out
}

func (s *TaskStore) Close() {
	s.changes.Close()
}
