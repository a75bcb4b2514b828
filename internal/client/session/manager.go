package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cygnuslabs/cygnusone/internal/client/api"
	"github.com/cygnuslabs/cygnusone/internal/client/models"
	"github.com/cygnuslabs/cygnusone/internal/logging"
	"github.com/cygnuslabs/cygnusone/internal/pubsub"
)

// ErrNoSession is returned by operations that require an active session.
var ErrNoSession = errors.New("no active session")

// Manager orchestrates the auth client and the session store. All state
// changes are broadcast on the event bus; the shell redirects on them.
type Manager struct {
	api   api.AuthAPI
	store *Store
	bus   *pubsub.Bus[Event]
	log   logging.Logger
}

func NewManager(authAPI api.AuthAPI, store *Store, log logging.Logger) *Manager {
	return &Manager{
		api:   authAPI,
		store: store,
		bus:   pubsub.NewBus[Event](),
		log:   log,
	}
}

// Subscribe registers an observer for authentication changes. Callbacks run
// outside the goroutine that triggered the change; close the subscription
// when the observer goes away.
func (m *Manager) Subscribe(fn func(Event)) *pubsub.Subscription[Event] {
	return m.bus.Subscribe(fn)
}

// Login authenticates, persists the session and broadcasts EventLoggedIn.
// A classified API error leaves stored state untouched. A persistence
// failure after a successful authentication is returned as an error: a
// session that cannot be durably saved is not a login.
func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	token, user, err := m.api.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "err", err)
		return nil, err
	}

	if err := m.store.SaveSession(ctx, token, user); err != nil {
		m.log.Error(ctx, "saving session failed", "err", err)
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	m.log.Info(ctx, "login successful", "email", user.Email)
	m.bus.Publish(Event{Type: EventLoggedIn, User: user})
	return user, nil
}

// Register creates an account and logs it in; same contract as Login. The
// display name sent to the server is derived from the email local part.
func (m *Manager) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	token, user, err := m.api.Register(ctx, email, password, displayName(email))
	if err != nil {
		m.log.Warn(ctx, "registration failed", "err", err)
		return nil, err
	}

	if err := m.store.SaveSession(ctx, token, user); err != nil {
		m.log.Error(ctx, "saving session failed", "err", err)
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	m.log.Info(ctx, "registration successful", "email", user.Email)
	m.bus.Publish(Event{Type: EventLoggedIn, User: user})
	return user, nil
}

// Logout clears local state and broadcasts EventLoggedOut. The remote call
// is best-effort: its failure is logged and otherwise ignored. A failure to
// clear local state is returned and suppresses the event.
func (m *Manager) Logout(ctx context.Context) error {
	token, err := m.store.Token(ctx)
	if err != nil {
		m.log.Warn(ctx, "reading token for logout", "err", err)
	}
	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.log.Warn(ctx, "remote logout failed", "err", err)
		}
	}

	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clearing session failed", "err", err)
		return fmt.Errorf("clearing session: %w", err)
	}

	m.log.Info(ctx, "logged out")
	m.bus.Publish(Event{Type: EventLoggedOut})
	return nil
}

// IsAuthenticated reports whether both a non-empty token and a stored user
// id are present. Partial state counts as logged-out; it is not repaired.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	token, err := m.store.Token(ctx)
	if err != nil {
		m.log.Warn(ctx, "reading token", "err", err)
		return false
	}
	if token == "" {
		return false
	}

	user, err := m.store.User(ctx)
	if err != nil {
		m.log.Warn(ctx, "reading stored user", "err", err)
		return false
	}
	return user != nil
}

// CurrentUser returns the persisted user, or nil when none. It never issues
// a network call.
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	return m.store.User(ctx)
}

// RefreshUser re-fetches the user record for the active session and updates
// the stored display fields. Identifier and email are fixed for the session
// lifetime and kept from the stored record.
func (m *Manager) RefreshUser(ctx context.Context) (*models.User, error) {
	token, err := m.store.Token(ctx)
	if err != nil {
		return nil, err
	}
	current, err := m.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" || current == nil {
		return nil, ErrNoSession
	}

	fresh, err := m.api.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	fresh.ID = current.ID
	fresh.Email = current.Email

	if err := m.store.SaveSession(ctx, token, fresh); err != nil {
		return nil, fmt.Errorf("persisting refreshed user: %w", err)
	}
	return fresh, nil
}

// displayName extracts a usable name from the email local part, falling
// back to "user".
func displayName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "user"
	}
	return local
}
