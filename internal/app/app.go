package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"fotohogar/internal/config"
	"fotohogar/internal/database"
	"fotohogar/internal/encryption"
	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
	"fotohogar/internal/session"
	"fotohogar/internal/storage"
)

// App is the application layer between the CLI and the data service.
// It constructs all dependencies from config, restores the persisted session,
// exposes the operations the CLI offers and releases resources on Close.
type App struct {
	cfg       *config.Config
	repo      fotohogar.Repository
	storage   fotohogar.Storage
	encryptor fotohogar.Encryptor
	persister *session.Persister
	service   *fotohogar.Service
	validator *fotohogar.CredentialValidator
	hasher    fotohogar.PasswordHasher
	session   *fotohogar.SessionState
	albums    *fotohogar.AlbumState
	logger    fotohogar.Logger
	op        *Operation
	logFile   *os.File
	unbind    func()
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Login", "ShowAlbum").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string, verbose bool) (*App, error) {
	clock := fotohogar.RealClock{}
	op := NewOperation(operation, clock.Now())

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &App{cfg: cfg, logger: logger, op: op, logFile: logFile}
	if err := a.wire(ctx, clock); err != nil {
		a.Close()
		return nil, err
	}

	logger.Debug("operation started", "op", op.Name)
	return a, nil
}

func (a *App) wire(ctx context.Context, clock fotohogar.Clock) error {
	enc, err := encryption.NewEncryptorFromConfig(a.cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if !enc.IsConfigured() {
		return fmt.Errorf("encryption key not found at %s: run `fotohogar config init`", a.cfg.Encryption.IdentityPath)
	}
	a.encryptor = enc

	hasher, err := fotohogar.NewPasswordHasher(a.cfg.Auth.Hasher)
	if err != nil {
		return err
	}
	a.hasher = hasher

	repo, err := database.NewRepositoryFromConfig(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("creating repository: %w", err)
	}
	a.repo = repo

	st, err := storage.NewStorageFromConfig(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("creating storage: %w", err)
	}
	a.storage = st

	latency := fotohogar.Latency{Default: a.cfg.Latency.Default(), Upload: a.cfg.Latency.Upload()}
	a.service = fotohogar.NewService(repo, latency, a.logger, clock, fotohogar.UUIDGenerator{})
	a.validator = fotohogar.NewCredentialValidator(a.service, a.logger)

	signer := session.NewTokenSigner(a.cfg.Session.Secret, a.cfg.Session.TTL(), clock)
	a.persister = session.NewPersister(st, enc, signer, a.logger)

	a.session = fotohogar.NewSessionState()
	a.albums = fotohogar.NewAlbumState()

	saved, err := a.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("restoring session: %w", err)
	}
	a.session.Restore(saved)
	a.unbind = a.persister.Bind(ctx, a.session)
	return nil
}

// Session returns the session store.
func (a *App) Session() *fotohogar.SessionState {
	return a.session
}

// Albums returns the album view store.
func (a *App) Albums() *fotohogar.AlbumState {
	return a.albums
}

// Login validates the credentials and, on success, records and persists the session.
func (a *App) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := a.validator.ValidateLogin(ctx, email, password)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.session.SetUser(user)
	return user.Public(), nil
}

// Logout clears the session and its persisted record.
func (a *App) Logout() {
	a.session.Logout()
}

// CurrentUser returns the logged-in user or ErrNotAuthenticated.
func (a *App) CurrentUser() (*model.User, error) {
	if !a.session.IsAuthenticated() || a.session.User() == nil {
		return nil, a.op.Record(fotohogar.ErrNotAuthenticated)
	}
	return a.session.User().Public(), nil
}

// ListUsers returns every user.
func (a *App) ListUsers(ctx context.Context) ([]*model.User, error) {
	if _, err := a.CurrentUser(); err != nil {
		return nil, err
	}
	users, err := a.service.ListUsers(ctx)
	if err != nil {
		return nil, a.op.Record(err)
	}
	public := make([]*model.User, len(users))
	for i, u := range users {
		public[i] = u.Public()
	}
	return public, nil
}

// HashPassword digests password with the configured hasher, for dataset files.
func (a *App) HashPassword(password string) (string, error) {
	return a.hasher.Hash(password)
}

// Close stops session syncing and closes all resources.
func (a *App) Close() error {
	var errs []error

	if a.unbind != nil {
		a.unbind()
	}

	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing repository: %w", err))
		}
	}

	if c, ok := a.storage.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing storage: %w", err))
		}
	}

	a.logger.Debug("operation finished", "op", a.op.Name, "status", a.op.Status)
	if a.logFile != nil {
		a.logFile.Close()
	}

	return errors.Join(errs...)
}
