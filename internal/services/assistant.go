package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nudger/internal/advice"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/report"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
)

// Generator produces advice for a snapshot. *advice.Engine implements it.
type Generator interface {
	Generate(goals models.Goals, tasks []models.Task, persona models.Persona, trigger models.TriggerKind, now time.Time) (advice.Advice, error)
}

// Assistant is the surface a front end drives. Every operation acts on the
// identity currently held by the ledger.
type Assistant struct {
	ledger   *IdentityLedger
	profiles *ProfileStore
	tasks    *TaskStore
	history  *AdviceHistory
	engine   Generator
	now      Clock
	log      logging.Logger
}

func NewAssistant(ledger *IdentityLedger, profiles *ProfileStore, tasks *TaskStore, history *AdviceHistory,
	engine Generator, clock Clock, log logging.Logger) *Assistant {
	return &Assistant{
		ledger:   ledger,
		profiles: profiles,
		tasks:    tasks,
		history:  history,
		engine:   engine,
		now:      clock.orDefault(),
		log:      log.With("component", "assistant"),
	}
}

func (a *Assistant) owner() (string, error) {
	id, ok := a.ledger.CurrentUserID()
	if !ok {
		return "", common.ErrNotAuthenticated
	}
	return id, nil
}

func validateGoals(g models.Goals) error {
	if g.IsBlank() {
		return fmt.Errorf("%w: goals are blank", common.ErrValidation)
	}
	return nil
}

// Profile returns the current user's profile.
func (a *Assistant) Profile(ctx context.Context) (*models.UserProfile, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	return a.profiles.Get(ctx, owner)
}

// CompleteOnboarding saves goals and persona and marks onboarding done.
func (a *Assistant) CompleteOnboarding(ctx context.Context, goals models.Goals, persona models.Persona) (*models.UserProfile, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	if err := validateGoals(goals); err != nil {
		return nil, err
	}
	if _, ok := models.ParsePersona(string(persona)); !ok {
		return nil, fmt.Errorf("%w: unknown persona %q", common.ErrValidation, persona)
	}

	p := &models.UserProfile{UserID: owner, Goals: goals, Persona: persona, OnboardingComplete: true}
	if err := a.profiles.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (a *Assistant) UpdateGoals(ctx context.Context, goals models.Goals) (*models.UserProfile, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	if err := validateGoals(goals); err != nil {
		return nil, err
	}
	return a.profiles.Update(ctx, owner, func(p *models.UserProfile) error {
		p.Goals = goals
		return nil
	})
}

func (a *Assistant) UpdatePersona(ctx context.Context, persona models.Persona) (*models.UserProfile, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	if _, ok := models.ParsePersona(string(persona)); !ok {
		return nil, fmt.Errorf("%w: unknown persona %q", common.ErrValidation, persona)
	}
	return a.profiles.Update(ctx, owner, func(p *models.UserProfile) error {
		p.Persona = persona
		return nil
	})
}

// Tasks lists the current user's tasks, newest first.
func (a *Assistant) Tasks(ctx context.Context) ([]models.Task, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	return a.tasks.ListByOwner(ctx, owner)
}

// ownedTask returns common.ErrNotFound for tasks of other owners.
func (a *Assistant) ownedTask(ctx context.Context, id int64) (*models.Task, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	t, err := a.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != owner {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (a *Assistant) Task(ctx context.Context, id int64) (*models.Task, error) {
	return a.ownedTask(ctx, id)
}

// CreateTask stores draft for the current user and then fires the automatic
// nudge. The returned message is nil when no nudge was produced; a failed
// nudge never fails the create.
func (a *Assistant) CreateTask(ctx context.Context, draft models.Task) (*models.Task, *models.AdviceMessage, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, nil, err
	}
	draft.OwnerID = owner
	draft.CreatedAt = time.Time{}

	id, err := a.tasks.Create(ctx, draft)
	if err != nil {
		return nil, nil, err
	}
	created, err := a.tasks.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	msg, err := a.generate(ctx, owner, models.TriggerAutoOnCreate)
	if err != nil {
		a.log.Warn(ctx, "automatic nudge skipped", "task_id", id, "reason", err)
		return created, nil, nil
	}
	return created, msg, nil
}

// UpdateTask replaces title, priority, deadline and flags of an owned task.
func (a *Assistant) UpdateTask(ctx context.Context, t models.Task) error {
	stored, err := a.ownedTask(ctx, t.ID)
	if err != nil {
		return err
	}
	t.OwnerID = stored.OwnerID
	t.CreatedAt = stored.CreatedAt
	return a.tasks.Update(ctx, t)
}

func (a *Assistant) SetCompleted(ctx context.Context, id int64, completed bool) error {
	t, err := a.ownedTask(ctx, id)
	if err != nil {
		return err
	}
	t.Completed = completed
	return a.tasks.Update(ctx, *t)
}

func (a *Assistant) SetFlagged(ctx context.Context, id int64, flagged bool) error {
	t, err := a.ownedTask(ctx, id)
	if err != nil {
		return err
	}
	t.Flagged = flagged
	return a.tasks.Update(ctx, *t)
}

func (a *Assistant) DeleteTask(ctx context.Context, id int64) error {
	if _, err := a.ownedTask(ctx, id); err != nil {
		return err
	}
	return a.tasks.Delete(ctx, id)
}

// Nudge generates and records manual advice for the current user.
func (a *Assistant) Nudge(ctx context.Context) (*models.AdviceMessage, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	return a.generate(ctx, owner, models.TriggerManual)
}

func (a *Assistant) generate(ctx context.Context, owner string, trigger models.TriggerKind) (*models.AdviceMessage, error) {
	profile, err := a.profiles.Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	list, err := a.tasks.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	now := a.now()
	adv, err := a.engine.Generate(profile.Goals, list, profile.Persona, trigger, now)
	if err != nil {
		return nil, err
	}

	msg := models.AdviceMessage{
		UserID:    owner,
		Prompt:    adv.Prompt,
		Response:  adv.Response,
		Persona:   profile.Persona,
		Trigger:   trigger,
		CreatedAt: now.UTC(),
	}
	if msg.ID, err = a.history.Append(ctx, msg); err != nil {
		return nil, err
	}

	a.log.Info(ctx, "advice generated", "trigger", trigger, "branch", adv.Branch, "persona", profile.Persona)
	return &msg, nil
}

// History lists the current user's advice, newest first.
func (a *Assistant) History(ctx context.Context, f messages.Filter) ([]models.AdviceMessage, error) {
	owner, err := a.owner()
	if err != nil {
		return nil, err
	}
	return a.history.List(ctx, owner, f)
}

func (a *Assistant) ClearHistory(ctx context.Context) (int64, error) {
	owner, err := a.owner()
	if err != nil {
		return 0, err
	}
	return a.history.Clear(ctx, owner)
}

// ExportHistory renders the full history of the current user.
func (a *Assistant) ExportHistory(ctx context.Context, f report.Format) ([]byte, error) {
	msgs, err := a.History(ctx, messages.Filter{})
	if err != nil {
		return nil, err
	}
	title := "Advice history"
	if id := a.ledger.CurrentIdentity(); id != nil && id.Email != "" {
		title += " of " + id.Email
	}
	return report.Render(f, title, msgs)
}

// DeleteAccount clears the current user's profile and then drops the live
// identity in the ledger.
func (a *Assistant) DeleteAccount(ctx context.Context) error {
	owner, err := a.owner()
	if err != nil {
		return err
	}
	if err := a.profiles.Clear(ctx, owner); err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	a.ledger.DeleteAccount(ctx)
	return nil
}
