package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
)

// StorageKey is the fixed key the session record is stored under.
const StorageKey = "user-storage"

// recordVersion is written with every record; others load as logged out.
const recordVersion = 0

// record is the persisted shape: {"state": {...}, "version": 0}.
type record struct {
	State   persistedState `json:"state"`
	Version int            `json:"version"`
}

type persistedState struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
	Token           string      `json:"token,omitempty"`
}

// Persister saves and restores the session through a Storage backend.
// Records are encrypted with the Encryptor and carry a signed token; a record
// that cannot be decrypted, decoded or verified loads as logged out.
type Persister struct {
	storage   fotohogar.Storage
	encryptor fotohogar.Encryptor
	signer    *TokenSigner
	logger    fotohogar.Logger
}

// NewPersister creates a Persister with the provided dependencies.
func NewPersister(storage fotohogar.Storage, encryptor fotohogar.Encryptor, signer *TokenSigner, logger fotohogar.Logger) *Persister {
	return &Persister{
		storage:   storage,
		encryptor: encryptor,
		signer:    signer,
		logger:    logger,
	}
}

// Save writes session. The user's password digest is never persisted.
func (p *Persister) Save(ctx context.Context, session fotohogar.Session) error {
	rec := record{Version: recordVersion}
	if session.IsAuthenticated && session.User != nil {
		u := session.User.Public()

		token, err := p.signer.Sign(u.ID)
		if err != nil {
			return err
		}
		rec.State = persistedState{User: u, IsAuthenticated: true, Token: token}
	}

	plain, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	var sealed bytes.Buffer
	if err := p.encryptor.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return fmt.Errorf("encrypting session: %w", err)
	}

	if err := p.storage.Put(ctx, StorageKey, sealed.Bytes()); err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or a logged-out session when nothing
// usable is stored. Only storage failures are returned as errors.
func (p *Persister) Load(ctx context.Context) (fotohogar.Session, error) {
	var loggedOut fotohogar.Session

	sealed, err := p.storage.Get(ctx, StorageKey)
	if err != nil {
		if errors.Is(err, fotohogar.ErrNotFound) {
			return loggedOut, nil
		}
		return loggedOut, fmt.Errorf("reading session: %w", err)
	}

	var plain bytes.Buffer
	if err := p.encryptor.Decrypt(bytes.NewReader(sealed), &plain); err != nil {
		p.logger.Warn("discarding unreadable session", "error", err)
		return loggedOut, nil
	}

	var rec record
	if err := json.Unmarshal(plain.Bytes(), &rec); err != nil {
		p.logger.Warn("discarding malformed session", "error", err)
		return loggedOut, nil
	}
	if rec.Version != recordVersion {
		p.logger.Warn("discarding session with unknown version", "version", rec.Version)
		return loggedOut, nil
	}

	st := rec.State
	if !st.IsAuthenticated || st.User == nil {
		return loggedOut, nil
	}

	userID, err := p.signer.Verify(st.Token)
	if err != nil {
		p.logger.Warn("discarding session with invalid token", "error", err)
		return loggedOut, nil
	}
	if userID != st.User.ID {
		p.logger.Warn("discarding session with mismatched token", "user", st.User.ID)
		return loggedOut, nil
	}

	return fotohogar.Session{User: st.User, IsAuthenticated: true}, nil
}

// Clear removes the persisted session.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Bind keeps storage in sync with state: every change is saved, and a
// logout clears the record. Failures are logged. The returned func stops syncing.
func (p *Persister) Bind(ctx context.Context, state *fotohogar.SessionState) func() {
	return state.Subscribe(func(s fotohogar.Session) {
		var err error
		if s.IsAuthenticated {
			err = p.Save(ctx, s)
		} else {
			err = p.Clear(ctx)
		}
		if err != nil {
			p.logger.Error("syncing session", "error", err)
		}
	})
}
