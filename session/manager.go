package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"retaildash/models"
)

// ErrNoSession is returned by Load when the browser has no authenticated session.
var ErrNoSession = errors.New("no authenticated session")

func tokenKey(sid string) string { return "session:" + sid + ":token" }
func userKey(sid string) string  { return "session:" + sid + ":user" }

// Manager owns the load/save/clear lifecycle of authenticated sessions.
type Manager struct {
	storage Storage
	sealer  *Sealer
}

// NewManager creates a Manager over storage.
func NewManager(storage Storage, sealer *Sealer) *Manager {
	return &Manager{storage: storage, sealer: sealer}
}

// Load restores the session for sid. Both the token and the user entry must be present.
func (m *Manager) Load(ctx context.Context, sid string) (*models.Session, error) {
	if sid == "" {
		return nil, ErrNoSession
	}
	sealed, ok, err := m.storage.Get(ctx, tokenKey(sid))
	if err != nil {
		return nil, fmt.Errorf("loading session token: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}
	rawUser, ok, err := m.storage.Get(ctx, userKey(sid))
	if err != nil {
		return nil, fmt.Errorf("loading session user: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}

	token, err := m.sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	var user models.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return nil, fmt.Errorf("%w: stored user is not valid JSON", ErrNoSession)
	}

	return &models.Session{
		ID:       sid,
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

// Save persists the result of a successful login for sid.
func (m *Manager) Save(ctx context.Context, sid string, auth models.AuthResponse) (*models.Session, error) {
	sealed, err := m.sealer.Seal(auth.Token)
	if err != nil {
		return nil, err
	}
	user, err := json.Marshal(models.User{Username: auth.Username, Role: auth.Role})
	if err != nil {
		return nil, fmt.Errorf("encoding session user: %w", err)
	}
	if err := m.storage.Set(ctx, tokenKey(sid), sealed); err != nil {
		return nil, fmt.Errorf("saving session token: %w", err)
	}
	if err := m.storage.Set(ctx, userKey(sid), string(user)); err != nil {
		_ = m.storage.Delete(ctx, tokenKey(sid))
		return nil, fmt.Errorf("saving session user: %w", err)
	}

	return &models.Session{
		ID:       sid,
		Token:    auth.Token,
		Username: auth.Username,
		Role:     auth.Role,
	}, nil
}

// Clear removes both persisted entries of sid.
func (m *Manager) Clear(ctx context.Context, sid string) error {
	if err := m.storage.Delete(ctx, tokenKey(sid), userKey(sid)); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
