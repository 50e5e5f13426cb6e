// Package httpgateway implements the identity gateway against the real
// membership backend.
package httpgateway

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/identity"
	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
	"github.com/thmoreiracosta/uacl/token"
	"github.com/thmoreiracosta/uacl/vault"
)

var _ identity.Gateway = (*Gateway)(nil)

type Gateway struct {
	client *api.Client
	vault  vault.Vault
}

func New(client *api.Client, v vault.Vault) (*Gateway, error) {
	if client == nil {
		return nil, errors.New("[httpgateway.New] api client is required")
	}
	if v == nil {
		return nil, errors.New("[httpgateway.New] vault is required")
	}
	return &Gateway{client: client, vault: v}, nil
}

type sessionResponse struct {
	User         identity.Identity `json:"user"`
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
}

func (g *Gateway) Login(ctx context.Context, email, password string) (*identity.Identity, error) {
	var resp sessionResponse
	err := g.client.Post(ctx, "/auth/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBackendRejected) {
			return nil, identity.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "[Gateway.Login]")
	}
	if err := g.persist(&resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (g *Gateway) Logout(ctx context.Context) error {
	err := g.client.Post(ctx, "/auth/logout", nil, nil)

	// Local state is cleared even when the backend call failed; the
	// caller treats any outcome as logged out.
	_ = g.vault.Delete(vault.KeyUser)
	_ = g.vault.Delete(vault.KeyToken)
	_ = g.vault.Delete(vault.KeyRefreshToken)

	if err != nil && !apperrors.Is(err, apperrors.ErrSessionExpired) {
		return errors.Wrap(err, "[Gateway.Logout]")
	}
	return nil
}

func (g *Gateway) Register(ctx context.Context, name, email, password string) (*identity.Identity, error) {
	var resp sessionResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	err := g.client.Post(ctx, "/auth/register", body, &resp)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrBackendRejected) {
			return nil, identity.ErrEmailInUse
		}
		return nil, errors.Wrap(err, "[Gateway.Register]")
	}
	if err := g.persist(&resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// CurrentIdentity rehydrates from the cached identity when the stored
// access token is still fresh, and falls back to the backend otherwise.
func (g *Gateway) CurrentIdentity(ctx context.Context) (*identity.Identity, error) {
	if raw, ok := g.vault.Get(vault.KeyUser); ok {
		if accessToken, ok := g.vault.Get(vault.KeyToken); ok && !token.Expired(accessToken) {
			var id identity.Identity
			if err := json.Unmarshal([]byte(raw), &id); err == nil {
				return &id, nil
			}
		}
	}

	if _, ok := g.vault.Get(vault.KeyToken); !ok {
		return nil, nil
	}

	var id identity.Identity
	if err := g.client.Get(ctx, "/auth/me", &id); err != nil {
		if apperrors.Is(err, apperrors.ErrSessionExpired) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "[Gateway.CurrentIdentity]")
	}
	return &id, nil
}

func (g *Gateway) persist(resp *sessionResponse) error {
	cached, err := json.Marshal(resp.User)
	if err != nil {
		return errors.Wrap(err, "[Gateway.persist] encode identity")
	}
	if err := g.vault.Set(vault.KeyToken, resp.Token); err != nil {
		return err
	}
	if err := g.vault.Set(vault.KeyRefreshToken, resp.RefreshToken); err != nil {
		return err
	}
	return g.vault.Set(vault.KeyUser, string(cached))
}
