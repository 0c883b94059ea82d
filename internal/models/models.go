// Package models defines the data types shared by the stores, the classifier,
// the advice engine and the session resolver.
package models

import (
	"strings"
	"time"
)

// Account is a registered email with its hashed credential. It is created
// once per email and never updated.
type Account struct {
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}

// Identity is the currently resolved user. At most one is live at a time.
type Identity struct {
	UserID      string
	Email       string // empty for guests
	IsAnonymous bool
}

// Goals is the short/long-term goal pair captured during onboarding.
type Goals struct {
	ShortTerm string
	LongTerm  string
}

// IsBlank reports whether either goal is missing.
func (g Goals) IsBlank() bool {
	return strings.TrimSpace(g.ShortTerm) == "" || strings.TrimSpace(g.LongTerm) == ""
}

// UserProfile holds per-user onboarding state. One profile per user id.
type UserProfile struct {
	UserID             string
	Goals              Goals
	Persona            Persona
	OnboardingComplete bool
	SessionExpiresAt   time.Time
	UpdatedAt          time.Time
}

// NeedsOnboarding reports whether the profile must go through onboarding
// before the main flow.
func (p *UserProfile) NeedsOnboarding() bool {
	return p == nil || !p.OnboardingComplete || p.Goals.IsBlank()
}

// Expired reports whether the soft session timeout of the profile has passed.
func (p *UserProfile) Expired(now time.Time) bool {
	return !p.SessionExpiresAt.IsZero() && now.After(p.SessionExpiresAt)
}

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          int64
	OwnerID     string
	Title       string
	Priority    int
	Completed   bool
	Flagged     bool
	Deadline    DeadlineClass
	CreatedAt   time.Time
	CompletedAt *time.Time
}

const (
	PriorityNone = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

// PriorityText is the human label for a priority value.
func PriorityText(p int) string {
	switch p {
	case PriorityNone:
		return "none"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// AdviceMessage is one generated nudge. Messages are append-only.
type AdviceMessage struct {
	ID        string
	UserID    string
	Prompt    string
	Response  string
	Persona   Persona
	Trigger   TriggerKind
	CreatedAt time.Time
}
