package httpgateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/identity/httpgateway"
	"github.com/thmoreiracosta/uacl/token"
	"github.com/thmoreiracosta/uacl/vault"
)

var testSecret = []byte("test-signing-key")

type testFixture struct {
	vault   vault.Vault
	gateway *httpgateway.Gateway
	meCalls atomic.Int64
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{vault: vault.NewMemory()}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["password"] != "password123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeSession(t, w, creds["email"])
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		writeSession(t, w, body["email"])
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.meCalls.Add(1)
		json.NewEncoder(w).Encode(identity.Identity{ID: "u-1", Name: "João Silva", Email: "joao@example.com"})
	})

	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	client, err := api.NewClient(backend.URL, f.vault, 5*time.Second)
	require.NoError(t, err)
	gw, err := httpgateway.New(client, f.vault)
	require.NoError(t, err)
	f.gateway = gw
	return f
}

func writeSession(t *testing.T, w http.ResponseWriter, email string) {
	accessToken, err := token.Mint(testSecret, "u-1", email, time.Hour)
	require.NoError(t, err)
	json.NewEncoder(w).Encode(map[string]any{
		"user":         identity.Identity{ID: "u-1", Name: "João Silva", Email: email},
		"token":        accessToken,
		"refreshToken": "refresh-1",
	})
}

func TestLoginPersistsSession(t *testing.T) {
	f := setupTestFixture(t)

	id, err := f.gateway.Login(context.Background(), "joao@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "joao@example.com", id.Email)

	_, ok := f.vault.Get(vault.KeyToken)
	require.True(t, ok)
	refresh, ok := f.vault.Get(vault.KeyRefreshToken)
	require.True(t, ok)
	require.Equal(t, "refresh-1", refresh)
	_, ok = f.vault.Get(vault.KeyUser)
	require.True(t, ok)
}

func TestLoginMapsRejectionToInvalidCredentials(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "joao@example.com", "wrong")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestRegisterMapsConflictToEmailInUse(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Register(context.Background(), "Alguém", "taken@example.com", "Senha1234")
	require.ErrorIs(t, err, identity.ErrEmailInUse)
}

func TestCurrentIdentityUsesCacheWhileTokenFresh(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "joao@example.com", "password123")
	require.NoError(t, err)

	id, err := f.gateway.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.Equal(t, "joao@example.com", id.Email)
	require.Zero(t, f.meCalls.Load())
}

func TestCurrentIdentityFallsBackToBackendWhenTokenStale(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "joao@example.com", "password123")
	require.NoError(t, err)

	stale, err := token.Mint(testSecret, "u-1", "joao@example.com", -time.Hour)
	require.NoError(t, err)
	require.NoError(t, f.vault.Set(vault.KeyToken, stale))

	id, err := f.gateway.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u-1", id.ID)
	require.Equal(t, int64(1), f.meCalls.Load())
}

func TestCurrentIdentityWithoutTokens(t *testing.T) {
	f := setupTestFixture(t)

	id, err := f.gateway.CurrentIdentity(context.Background())
	require.NoError(t, err)
	require.Nil(t, id)
	require.Zero(t, f.meCalls.Load())
}

func TestLogoutClearsVault(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.gateway.Login(context.Background(), "joao@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.gateway.Logout(context.Background()))

	_, ok := f.vault.Get(vault.KeyToken)
	require.False(t, ok)
	_, ok = f.vault.Get(vault.KeyRefreshToken)
	require.False(t, ok)
	_, ok = f.vault.Get(vault.KeyUser)
	require.False(t, ok)
}
