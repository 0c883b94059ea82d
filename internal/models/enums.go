package models

import "time"

// DeadlineClass is a coarse deadline measured from the task creation time.
type DeadlineClass string

const (
	DeadlineNone       DeadlineClass = "NONE"
	DeadlineWithin24h  DeadlineClass = "WITHIN_24H"
	DeadlineWithinWeek DeadlineClass = "WITHIN_WEEK"
)

// Hours is the width of the deadline window; zero for DeadlineNone.
func (d DeadlineClass) Hours() int {
	switch d {
	case DeadlineWithin24h:
		return 24
	case DeadlineWithinWeek:
		return 168
	default:
		return 0
	}
}

// Window returns Hours as a duration.
func (d DeadlineClass) Window() time.Duration {
	return time.Duration(d.Hours()) * time.Hour
}

func (d DeadlineClass) DisplayName() string {
	switch d {
	case DeadlineWithin24h:
		return "within 24 hours"
	case DeadlineWithinWeek:
		return "within a week"
	default:
		return "no deadline"
	}
}

// ParseDeadline maps a stored or typed value to a DeadlineClass. Short forms
// "24h" and "week" are accepted; anything unknown is DeadlineNone.
func ParseDeadline(s string) DeadlineClass {
	switch s {
	case string(DeadlineWithin24h), "24h", "day":
		return DeadlineWithin24h
	case string(DeadlineWithinWeek), "week":
		return DeadlineWithinWeek
	default:
		return DeadlineNone
	}
}

// TriggerKind records why advice was generated.
type TriggerKind string

const (
	TriggerManual       TriggerKind = "MANUAL"
	TriggerAutoOnCreate TriggerKind = "AUTO_ON_CREATE"
)

// Persona names a response style.
type Persona string

const (
	PersonaHarshCritic    Persona = "HarshCritic"
	PersonaNaggingPartner Persona = "NaggingPartner"
	PersonaColdPrincess   Persona = "ColdPrincess"
)

// Personas lists every persona in display order.
var Personas = []Persona{PersonaHarshCritic, PersonaNaggingPartner, PersonaColdPrincess}

// ParsePersona returns the persona named s and whether it is known.
func ParsePersona(s string) (Persona, bool) {
	for _, p := range Personas {
		if string(p) == s {
			return p, true
		}
	}
	return PersonaHarshCritic, false
}
