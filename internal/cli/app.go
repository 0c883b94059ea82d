package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/nudger/internal/advice"
	"github.com/dmitrijs2005/nudger/internal/config"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/services"
	"github.com/dmitrijs2005/nudger/internal/session"
	"github.com/dmitrijs2005/nudger/internal/storage"
)

type App struct {
	config    *config.Config
	repos     *storage.Repositories
	ledger    *services.IdentityLedger
	profiles  *services.ProfileStore
	tasks     *services.TaskStore
	assistant *services.Assistant
	resolver  *session.Resolver
	catalog   *advice.Catalog
	log       logging.Logger
	now       func() time.Time
	reader    *bufio.Reader
}

// NewApp opens the database named by c and builds every store on it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	repos, err := storage.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", c.DatabaseDSN, "err", err)
		return nil, err
	}

	a, err := newApp(ctx, c, repos, log, time.Now)
	if err != nil {
		_ = repos.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, repos *storage.Repositories, log logging.Logger, now func() time.Time) (*App, error) {
	ledger, err := services.NewIdentityLedger(ctx, repos.DB, services.LedgerConfig{
		SessionSecret: []byte(c.SessionSecret),
		SessionTTL:    c.SessionTTL,
		Clock:         now,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("loading identity: %w", err)
	}

	tasks, err := services.NewTaskStore(ctx, repos.Tasks, now, log)
	if err != nil {
		ledger.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	profiles := services.NewProfileStore(repos.Profiles, c.SessionTTL, now, log)
	history := services.NewAdviceHistory(repos.Messages, now, log)
	engine := advice.NewEngine()

	return &App{
		config:    c,
		repos:     repos,
		ledger:    ledger,
		profiles:  profiles,
		tasks:     tasks,
		assistant: services.NewAssistant(ledger, profiles, tasks, history, engine, now, log),
		resolver:  session.NewResolver(ledger, profiles, profiles.AnyExists, session.WithClock(now), session.WithLogger(log)),
		catalog:   engine.Catalog(),
		log:       log.With("component", "cli"),
		now:       now,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// Run resolves the landing flow and serves commands until the user exits
// or stdin ends.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.Close()

	printlnFn("Welcome to nudger (type 'help' for commands)")

	a.resolve(ctx)
	go a.resolver.Run(ctx)
	go a.watchFlow(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	a.resolver.Close()
	a.tasks.Close()
	a.profiles.Close()
	a.ledger.Close()
	if err := a.repos.Close(); err != nil {
		a.log.Error(context.Background(), "closing database", "err", err)
	}
}

// resolve re-evaluates the session after a command changed identity or
// profile state.
func (a *App) resolve(ctx context.Context) {
	if _, err := a.resolver.Resolve(ctx); err != nil {
		a.log.Warn(ctx, "session resolution failed", "err", err)
	}
}

func (a *App) watchFlow(ctx context.Context) {
	last := session.Loading
	for s := range a.resolver.Subscribe(ctx) {
		if s == last {
			continue
		}
		last = s
		printlnFn(accent(flowHint(s)))
	}
}

func (a *App) state() session.State {
	return a.resolver.State()
}

func (a *App) getStatus() string {
	s := a.state().String()
	if id := a.ledger.CurrentIdentity(); id != nil {
		who := id.Email
		if id.IsAnonymous {
			who = "guest"
		}
		s = who + " · " + s
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) defaultPersona() models.Persona {
	p, _ := models.ParsePersona(a.config.DefaultPersona)
	return p
}
