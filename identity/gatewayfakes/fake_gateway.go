package gatewayfakes

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/token"
	"github.com/thmoreiracosta/uacl/vault"
)

var _ identity.Gateway = (*FakeGateway)(nil)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type account struct {
	identity     identity.Identity
	passwordHash string
}

// FakeGateway is an in-memory identity backend used in development and
// tests. It persists the logged-in identity and signed tokens through the
// vault so rehydration behaves like the real backend.
type FakeGateway struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by email
	vault    vault.Vault
	secret   []byte
}

func NewFakeGateway(v vault.Vault) *FakeGateway {
	g := &FakeGateway{
		accounts: make(map[string]*account),
		vault:    v,
		secret:   []byte("uacl-dev-signing-key"),
	}
	g.seed("João Silva", "joao@example.com", "password123")
	g.seed("Thiago Costa", "thiagomoreiracosta@gmail.com", "password321")
	return g
}

func (g *FakeGateway) seed(name, email, password string) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	g.accounts[email] = &account{
		identity:     identity.Identity{ID: uuid.New().String(), Name: name, Email: email},
		passwordHash: string(hash),
	}
}

func (g *FakeGateway) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	g.mu.RLock()
	acc, ok := g.accounts[email]
	g.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)) != nil {
		return nil, identity.ErrInvalidCredentials
	}

	id := acc.identity
	if err := g.openSession(&id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (g *FakeGateway) Logout(ctx context.Context) error {
	_ = g.vault.Delete(vault.KeyUser)
	_ = g.vault.Delete(vault.KeyToken)
	return g.vault.Delete(vault.KeyRefreshToken)
}

func (g *FakeGateway) Register(ctx context.Context, name, email, password string) (*identity.Identity, error) {
	g.mu.Lock()
	if _, exists := g.accounts[email]; exists {
		g.mu.Unlock()
		return nil, identity.ErrEmailInUse
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		g.mu.Unlock()
		return nil, errors.Wrap(err, "[FakeGateway.Register] hash password")
	}
	acc := &account{
		identity:     identity.Identity{ID: uuid.New().String(), Name: name, Email: email},
		passwordHash: string(hash),
	}
	g.accounts[email] = acc
	g.mu.Unlock()

	id := acc.identity
	if err := g.openSession(&id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (g *FakeGateway) CurrentIdentity(ctx context.Context) (*identity.Identity, error) {
	raw, ok := g.vault.Get(vault.KeyUser)
	if !ok {
		return nil, nil
	}
	if accessToken, ok := g.vault.Get(vault.KeyToken); !ok || token.Expired(accessToken) {
		return nil, nil
	}

	var id identity.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return nil, errors.Wrap(err, "[FakeGateway.CurrentIdentity] decode cached user")
	}
	return &id, nil
}

// openSession writes tokens and the cached identity to the vault, the way
// the real backend's login response is persisted client-side.
func (g *FakeGateway) openSession(id *identity.Identity) error {
	accessToken, err := token.Mint(g.secret, id.ID, id.Email, accessTokenTTL)
	if err != nil {
		return errors.Wrap(err, "[FakeGateway.openSession] mint access token")
	}
	refreshToken, err := token.Mint(g.secret, id.ID, id.Email, refreshTokenTTL)
	if err != nil {
		return errors.Wrap(err, "[FakeGateway.openSession] mint refresh token")
	}
	cached, err := json.Marshal(id)
	if err != nil {
		return errors.Wrap(err, "[FakeGateway.openSession] encode identity")
	}

	if err := g.vault.Set(vault.KeyToken, accessToken); err != nil {
		return err
	}
	if err := g.vault.Set(vault.KeyRefreshToken, refreshToken); err != nil {
		return err
	}
	return g.vault.Set(vault.KeyUser, string(cached))
}
