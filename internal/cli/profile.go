package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/models"
)

func (a *App) askGoals(current models.Goals) (models.Goals, error) {
	short, err := a.ask(withDefault("What do you want to get done soon?", current.ShortTerm))
	if err != nil {
		return models.Goals{}, err
	}
	long, err := a.ask(withDefault("And what is the bigger goal behind it?", current.LongTerm))
	if err != nil {
		return models.Goals{}, err
	}
	return models.Goals{ShortTerm: orKeep(short, current.ShortTerm), LongTerm: orKeep(long, current.LongTerm)}, nil
}

// choosePersona lists the personas and reads a number or a name. An empty
// answer picks def.
func (a *App) choosePersona(def models.Persona) (models.Persona, error) {
	for i, p := range models.Personas {
		name, desc := string(p), ""
		if spec, ok := a.catalog.Lookup(p); ok {
			name, desc = spec.DisplayName, spec.Description
		}
		printlnFn(fmt.Sprintf("  %d. %s  %s", i+1, accent(name), faint(desc)))
	}

	answer, err := a.ask(fmt.Sprintf("Choose a persona (1-%d, Enter for %s)", len(models.Personas), def))
	if err != nil {
		return "", err
	}
	return parsePersona(answer, def)
}

func parsePersona(answer string, def models.Persona) (models.Persona, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(answer); err == nil {
		if n < 1 || n > len(models.Personas) {
			return "", fmt.Errorf("%w: no persona number %d", common.ErrValidation, n)
		}
		return models.Personas[n-1], nil
	}
	for _, p := range models.Personas {
		if strings.EqualFold(string(p), answer) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown persona %q", common.ErrValidation, answer)
}

// Onboard captures goals and persona and completes onboarding.
func (a *App) Onboard(ctx context.Context) error {
	var current models.Goals
	def := a.defaultPersona()
	if p, err := a.assistant.Profile(ctx); err == nil {
		current, def = p.Goals, p.Persona
	}

	goals, err := a.askGoals(current)
	if err != nil {
		return err
	}
	persona, err := a.choosePersona(def)
	if err != nil {
		return err
	}
	if _, err := a.assistant.CompleteOnboarding(ctx, goals, persona); err != nil {
		return err
	}
	printlnFn(success("Onboarding complete."))
	a.resolve(ctx)
	return nil
}

func (a *App) Goals(ctx context.Context) error {
	p, err := a.assistant.Profile(ctx)
	if err != nil {
		return err
	}
	goals, err := a.askGoals(p.Goals)
	if err != nil {
		return err
	}
	if _, err := a.assistant.UpdateGoals(ctx, goals); err != nil {
		return err
	}
	printlnFn(success("Goals updated."))
	a.resolve(ctx)
	return nil
}

// Persona switches the persona. It is taken from args when given.
func (a *App) Persona(ctx context.Context, args []string) error {
	p, err := a.assistant.Profile(ctx)
	if err != nil {
		return err
	}

	var persona models.Persona
	if len(args) > 0 {
		persona, err = parsePersona(args[0], p.Persona)
	} else {
		persona, err = a.choosePersona(p.Persona)
	}
	if err != nil {
		return err
	}

	if _, err := a.assistant.UpdatePersona(ctx, persona); err != nil {
		return err
	}
	printlnFn(success("Persona set to " + a.personaName(persona) + "."))
	a.resolve(ctx)
	return nil
}

func (a *App) personaName(p models.Persona) string {
	if spec, ok := a.catalog.Lookup(p); ok {
		return spec.DisplayName
	}
	return string(p)
}

func withDefault(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return fmt.Sprintf("%s (Enter to keep %q)", prompt, current)
}

func orKeep(answer, current string) string {
	if answer == "" {
		return current
	}
	return answer
}
