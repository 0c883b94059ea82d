// Package advice turns a goal pair and a task snapshot into a persona
// flavoured nudge: a deterministic diagnostic prompt plus a response picked
// from the persona's templates.
package advice

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/nudger/internal/classifier"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/models"
)

// RandSource draws the template index. *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Advice is the result of one generation.
type Advice struct {
	Prompt   string
	Response string
	Branch   Branch
	Counts   classifier.Counts
}

// Engine has no side effects and is safe for concurrent use as long as its
// RandSource is.
type Engine struct {
	catalog *Catalog
	rand    RandSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand pins the random source, e.g. to a seeded *rand.Rand in tests.
func WithRand(r RandSource) Option {
	return func(e *Engine) { e.rand = r }
}

// WithCatalog replaces the built-in persona catalog.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// NewEngine returns an Engine over the built-in catalog and the global
// math/rand source unless overridden by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{catalog: DefaultCatalog(), rand: globalRand{}}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Generate classifies tasks at now and renders the prompt and response for
// persona. Only the template pick within the chosen branch is random.
func (e *Engine) Generate(goals models.Goals, tasks []models.Task, persona models.Persona, trigger models.TriggerKind, now time.Time) (Advice, error) {
	spec, ok := e.catalog.Lookup(persona)
	if !ok {
		return Advice{}, fmt.Errorf("%w: unknown persona %q", common.ErrValidation, persona)
	}

	p := classifier.Classify(tasks, now)
	counts := p.Counts()
	branch := SelectBranch(counts)

	candidates := spec.Templates[branch]
	template := candidates[e.rand.IntN(len(candidates))]

	return Advice{
		Prompt:   RenderPrompt(goals, p, spec, trigger, now),
		Response: Interpolate(template, counts, goals),
		Branch:   branch,
		Counts:   counts,
	}, nil
}

// Candidates returns the interpolated templates a Generate call with the
// same inputs can pick from.
func (e *Engine) Candidates(goals models.Goals, tasks []models.Task, persona models.Persona, now time.Time) ([]string, error) {
	spec, ok := e.catalog.Lookup(persona)
	if !ok {
		return nil, fmt.Errorf("%w: unknown persona %q", common.ErrValidation, persona)
	}
	counts := classifier.Classify(tasks, now).Counts()

	out := make([]string, 0, TemplatesPerBranch)
	for _, t := range spec.Templates[SelectBranch(counts)] {
		out = append(out, Interpolate(t, counts, goals))
	}
	return out, nil
}

// Interpolate substitutes the ${...} placeholders of a template.
func Interpolate(template string, c classifier.Counts, goals models.Goals) string {
	return strings.NewReplacer(
		"${overdueTasks}", strconv.Itoa(c.Overdue),
		"${incompleteTasks}", strconv.Itoa(c.Incomplete),
		"${completedTasks}", strconv.Itoa(c.Completed),
		"${shortTermGoal}", goals.ShortTerm,
		"${longTermGoal}", goals.LongTerm,
	).Replace(template)
}
