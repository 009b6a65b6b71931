// Package session owns the operator token's lifecycle. The controller
// allows a single active session, so every login forces a logoff first.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/interactions-lab/robopong/pkg/cue"
	"github.com/interactions-lab/robopong/pkg/gateway"
)

// ErrNotAuthenticated is returned by Token when no session is active.
var ErrNotAuthenticated = errors.New("not authenticated: login first")

// Manager holds the session token. It is written only by Login and Logoff;
// everything else borrows the token per call through Token. The manager is
// not safe for concurrent Login/Logoff against an in-flight sequence.
type Manager struct {
	dev    gateway.Device
	op     gateway.Operator
	sounds cue.Player
	token  string
}

// NewManager creates a logged-out session manager.
func NewManager(dev gateway.Device, op gateway.Operator, sounds cue.Player) *Manager {
	if sounds == nil {
		sounds = cue.Nop{}
	}
	return &Manager{dev: dev, op: op, sounds: sounds}
}

// Login acquires a fresh session token. Any prior session — ours or a
// dangling one left on the controller — is released first; the controller
// rejects a second operator otherwise.
func (m *Manager) Login(ctx context.Context) error {
	if err := m.Logoff(ctx); err != nil {
		return err
	}

	token, err := m.dev.Authenticate(ctx, m.op)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	m.token = token
	return nil
}

// Logoff releases the current session. It is a no-op when logged out, and
// it always ends logged out: a failed release call is swallowed, since a
// stuck session is worse than a lost confirmation.
func (m *Manager) Logoff(ctx context.Context) error {
	m.sounds.Play(cue.LogOff)

	token := m.token
	if token == "" {
		// A dangling session from a crashed run may still hold the
		// controller. Look it up so we can release it.
		found, err := m.dev.OperatorToken(ctx)
		if err != nil || found == "" {
			return nil
		}
		token = found
	}

	_ = m.dev.Release(ctx, token)
	m.token = ""
	return nil
}

// Token returns the active session token.
func (m *Manager) Token() (string, error) {
	if m.token == "" {
		return "", ErrNotAuthenticated
	}
	return m.token, nil
}

// LoggedIn reports whether a session is active.
func (m *Manager) LoggedIn() bool {
	return m.token != ""
}
