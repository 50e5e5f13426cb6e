// Package session holds the single source of truth for "who is using the
// portal right now". The store sequences loading-state transitions around
// identity gateway calls and publishes every change to its subscribers; it
// carries no business rules of its own.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/identity"
)

// State is a point-in-time snapshot of the session.
type State struct {
	Identity *identity.Identity
	Loading  bool
}

// Authenticated is true iff an identity is current.
func (s State) Authenticated() bool {
	return s.Identity != nil
}

// Store owns the session state. All mutation goes through the gateway
// operations; there is no direct external write.
type Store struct {
	mu      sync.RWMutex
	gateway identity.Gateway
	state   State
	subs    map[int]func(State)
	nextSub int
	log     zerolog.Logger
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

func NewStore(gateway identity.Gateway, options ...StoreOption) (*Store, error) {
	if gateway == nil {
		return nil, errors.New("[NewStore] gateway is required")
	}

	s := &Store{
		gateway: gateway,
		state:   State{Loading: true},
		subs:    make(map[int]func(State)),
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Initialize rehydrates the session once at startup. Gateway failures are
// swallowed and leave the session unauthenticated; the loading flag is
// always cleared.
func (s *Store) Initialize(ctx context.Context) {
	id, err := s.gateway.CurrentIdentity(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session rehydration failed, treating as unauthenticated")
		id = nil
	}
	s.setState(State{Identity: id, Loading: false})
}

// Login delegates to the gateway. On failure the error is returned for the
// calling form to render and the identity stays unset.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	id, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		s.setLoading(false)
		return errors.Wrap(err, "[Store.Login]")
	}
	s.setState(State{Identity: id, Loading: false})
	return nil
}

// Register delegates to the gateway; a successful registration opens a
// session just like a login.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.setLoading(true)
	id, err := s.gateway.Register(ctx, name, email, password)
	if err != nil {
		s.setLoading(false)
		return errors.Wrap(err, "[Store.Register]")
	}
	s.setState(State{Identity: id, Loading: false})
	return nil
}

// Logout clears the identity regardless of whether the gateway reported
// success.
func (s *Store) Logout(ctx context.Context) error {
	s.setLoading(true)
	err := s.gateway.Logout(ctx)
	s.setState(State{Identity: nil, Loading: false})
	if err != nil {
		return errors.Wrap(err, "[Store.Logout]")
	}
	return nil
}

// SetIdentity replaces the current identity directly. Used after profile
// mutations that change identity attributes outside the gateway operations.
func (s *Store) SetIdentity(id *identity.Identity) {
	s.mu.Lock()
	s.state.Identity = id
	state := s.state
	s.mu.Unlock()
	s.notify(state)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to run on every state change and returns a cancel
// function.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) setLoading(loading bool) {
	s.mu.Lock()
	s.state.Loading = loading
	state := s.state
	s.mu.Unlock()
	s.notify(state)
}

func (s *Store) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify(state)
}

func (s *Store) notify(state State) {
	s.mu.RLock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(state)
	}
}
