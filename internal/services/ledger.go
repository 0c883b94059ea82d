package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/nudger/internal/auth"
	"github.com/dmitrijs2005/nudger/internal/broadcast"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/cryptox"
	"github.com/dmitrijs2005/nudger/internal/dbx"
	"github.com/dmitrijs2005/nudger/internal/logging"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/repositories/accounts"
	"github.com/dmitrijs2005/nudger/internal/repositories/settings"
	"github.com/google/uuid"
)

// Settings keys owned by the ledger.
const (
	keySessionToken = "session_token"
	keySignedOut    = "signed_out"
)

// userNamespace seeds the deterministic user ids.
var userNamespace = uuid.MustParse("5b0f6a7e-3c1d-4d8e-9a51-2f4c6b7d8e90")

// UserIDFor derives the owner key of an email. The same email always maps to
// the same id, so data ownership survives sign-out and sign-in.
func UserIDFor(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(normalizeEmail(email))).String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LedgerConfig configures an IdentityLedger.
type LedgerConfig struct {
	// SessionSecret signs session stamps.
	SessionSecret []byte
	// SessionTTL is the lifetime of a stamp; each sign-in rolls it forward.
	SessionTTL time.Duration
	Clock      Clock
}

// IdentityLedger owns the registered accounts and the single live identity.
type IdentityLedger struct {
	mu sync.Mutex

	db       *sql.DB
	accounts accounts.Repository
	settings settings.Repository

	secret []byte
	ttl    time.Duration
	now    Clock
	log    logging.Logger

	current   *models.Identity
	signedOut bool
	userIDs   *broadcast.Value[string]
}

// NewIdentityLedger loads the persisted sign-out flag and restores the last
// identity when its session stamp has not expired.
func NewIdentityLedger(ctx context.Context, db *sql.DB, cfg LedgerConfig, log logging.Logger) (*IdentityLedger, error) {
	l := &IdentityLedger{
		db:       db,
		accounts: accounts.NewSQLiteRepository(db),
		settings: settings.NewSQLiteRepository(db),
		secret:   cfg.SessionSecret,
		ttl:      cfg.SessionTTL,
		now:      cfg.Clock.orDefault(),
		log:      log.With("component", "ledger"),
		userIDs:  broadcast.New(""),
	}

	flag, err := l.settings.Get(ctx, keySignedOut)
	if err != nil {
		return nil, err
	}
	l.signedOut = string(flag) == "1"

	if err := l.restore(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *IdentityLedger) restore(ctx context.Context) error {
	token, err := l.settings.Get(ctx, keySessionToken)
	if err != nil {
		return err
	}
	if token == nil {
		return nil
	}

	stamp, err := auth.ParseStamp(string(token), l.secret, l.now())
	if err != nil {
		l.log.Info(ctx, "discarding session stamp", "reason", err)
		return l.settings.Delete(ctx, keySessionToken)
	}

	acc, err := l.accounts.Get(ctx, stamp.Email)
	if errors.Is(err, common.ErrNotFound) {
		l.log.Warn(ctx, "session stamp for unknown account", "email", stamp.Email)
		return l.settings.Delete(ctx, keySessionToken)
	}
	if err != nil {
		return err
	}

	l.setIdentity(&models.Identity{UserID: UserIDFor(acc.Email), Email: acc.Email})
	l.log.Info(ctx, "session restored", "email", acc.Email, "expires_at", stamp.ExpiresAt)
	return nil
}

// setIdentity must be called with mu held (or before the ledger is shared).
func (l *IdentityLedger) setIdentity(id *models.Identity) {
	l.current = id
	if id == nil {
		l.userIDs.Store("")
		return
	}
	l.userIDs.Store(id.UserID)
}

func validateCredentials(email string, password []byte) error {
	if email == "" {
		return fmt.Errorf("%w: email is blank", common.ErrValidation)
	}
	if len(password) == 0 {
		return fmt.Errorf("%w: credential is blank", common.ErrValidation)
	}
	return nil
}

// CreateGuest mints a random anonymous identity and clears the sign-out
// flag. It always yields an id; a failure to persist the flag is logged.
func (l *IdentityLedger) CreateGuest(ctx context.Context) string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.settings.Delete(ctx, keySignedOut); err != nil {
		l.log.Error(ctx, "failed to clear sign-out flag", "err", err)
	}
	l.signedOut = false

	id := uuid.NewString()
	l.setIdentity(&models.Identity{UserID: id, IsAnonymous: true})
	l.log.Info(ctx, "guest identity created", "user_id", id)
	return id
}

// SignIn authenticates email. It returns common.ErrNotFound for unknown
// emails and common.ErrInvalidCredential for a wrong password.
func (l *IdentityLedger) SignIn(ctx context.Context, email string, password []byte) error {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	acc, err := l.accounts.Get(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			l.log.Warn(ctx, "sign-in to unregistered email", "email", email)
		}
		return err
	}
	if !cryptox.VerifyCredential(password, acc.Salt, acc.Verifier) {
		l.log.Warn(ctx, "sign-in with invalid credential", "email", email)
		return common.ErrInvalidCredential
	}

	err = dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return l.stampSession(ctx, settings.NewSQLiteRepository(tx), email)
	})
	if err != nil {
		return err
	}

	l.signIn(ctx, email)
	return nil
}

// SignUp registers email and signs it in. common.ErrAlreadyExists if the
// email is already registered.
func (l *IdentityLedger) SignUp(ctx context.Context, email string, password []byte) error {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	salt, verifier := cryptox.NewCredential(password)
	acc := &models.Account{Email: email, Salt: salt, Verifier: verifier, CreatedAt: l.now().UTC()}

	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := accounts.NewSQLiteRepository(tx).Create(ctx, acc); err != nil {
			return err
		}
		return l.stampSession(ctx, settings.NewSQLiteRepository(tx), email)
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			l.log.Warn(ctx, "sign-up with registered email", "email", email)
		}
		return err
	}

	l.log.Info(ctx, "account registered", "email", email)
	l.signIn(ctx, email)
	return nil
}

// stampSession persists a fresh stamp and clears the sign-out flag.
func (l *IdentityLedger) stampSession(ctx context.Context, repo settings.Repository, email string) error {
	token, err := auth.IssueStamp(email, l.secret, l.now(), l.ttl)
	if err != nil {
		return err
	}
	if err := repo.Set(ctx, keySessionToken, []byte(token)); err != nil {
		return err
	}
	return repo.Delete(ctx, keySignedOut)
}

func (l *IdentityLedger) signIn(ctx context.Context, email string) {
	l.signedOut = false
	l.setIdentity(&models.Identity{UserID: UserIDFor(email), Email: email})
	l.log.Info(ctx, "signed in", "email", email)
}

// SignOut clears the identity, raises the sign-out flag and drops the
// session stamp. Storage failures are logged, never returned.
func (l *IdentityLedger) SignOut(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := dbx.WithTx(ctx, l.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keySignedOut, []byte("1")); err != nil {
			return err
		}
		return repo.Delete(ctx, keySessionToken)
	})
	if err != nil {
		l.log.Error(ctx, "failed to persist sign-out", "err", err)
	}

	l.signedOut = true
	l.setIdentity(nil)
	l.log.Info(ctx, "signed out")
}

// DeleteAccount clears the live identity and its session stamp. The account
// registration and the sign-out flag are left as they are.
//
// The stamp goes so a relaunch cannot restore the deleted identity. Whether
// deletion should also drop the registration and the user's tasks is an open
// product question; see DESIGN.md, open question 1.
func (l *IdentityLedger) DeleteAccount(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.settings.Delete(ctx, keySessionToken); err != nil {
		l.log.Error(ctx, "failed to drop session stamp", "err", err)
	}

	var userID string
	if l.current != nil {
		userID = l.current.UserID
	}
	l.setIdentity(nil)
	l.log.Info(ctx, "identity deleted", "user_id", userID)
}

// CurrentUserID returns the live user id, if any.
func (l *IdentityLedger) CurrentUserID() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return "", false
	}
	return l.current.UserID, true
}

// CurrentIdentity returns a copy of the live identity or nil.
func (l *IdentityLedger) CurrentIdentity() *models.Identity {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	id := *l.current
	return &id
}

func (l *IdentityLedger) HasSignedOut() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.signedOut
}

// UserIDs streams the live user id; "" means nobody is signed in. The
// current value is delivered first.
func (l *IdentityLedger) UserIDs(ctx context.Context) <-chan string {
	ch, _ := l.userIDs.Subscribe(ctx)
	return ch
}

func (l *IdentityLedger) Close() {
	l.userIDs.Close()
}
