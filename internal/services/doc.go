// Package services contains the stateful stores of the application and the
// workflow that ties them together:
//
//   - IdentityLedger: accounts, the live identity and the session stamp
//   - ProfileStore: per-user goals, persona and onboarding state
//   - TaskStore: task CRUD plus a per-owner reactive stream
//   - AdviceHistory: the append-only log of generated nudges
//   - Assistant: the operations a front end calls
//
// Each store serializes its own writes and publishes a change notification
// after every write. Readers never need a lock.
package services

import "time"

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func (c Clock) orDefault() Clock {
	if c == nil {
		return time.Now
	}
	return c
}
