package member_test

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
	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/member"
	"github.com/thmoreiracosta/uacl/internal/utils"
	"github.com/thmoreiracosta/uacl/vault"
)

func newServiceAgainst(t *testing.T, baseURL string) *member.Service {
	t.Helper()
	client, err := api.NewClient(baseURL, vault.NewMemory(), 500*time.Millisecond)
	require.NoError(t, err)
	svc, err := member.NewService(client)
	require.NoError(t, err)
	return svc
}

func TestUpdateProfileReturnsRefreshedIdentity(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/user/profile", r.URL.Path)

		var update member.ProfileUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
		require.Equal(t, "João S. Silva", utils.Value(update.Name))
		require.Nil(t, update.Phone)

		json.NewEncoder(w).Encode(identity.Identity{ID: "u-1", Name: "João S. Silva", Email: "joao@example.com"})
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	id, err := svc.UpdateProfile(context.Background(), member.ProfileUpdate{Name: utils.Ptr("João S. Silva")})
	require.NoError(t, err)
	require.Equal(t, "João S. Silva", id.Name)
}

func TestUpdateProfileRejectsBlankFieldsLocally(t *testing.T) {
	var backendCalls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)

	_, err := svc.UpdateProfile(context.Background(), member.ProfileUpdate{Name: utils.Ptr("   ")})
	require.Error(t, err)

	_, err = svc.UpdateProfile(context.Background(), member.ProfileUpdate{Phone: utils.Ptr("123")})
	require.Error(t, err)

	require.Zero(t, backendCalls.Load())
}

func TestChangePasswordRejectsWeakPasswordLocally(t *testing.T) {
	var backendCalls atomic.Int64
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	err := svc.ChangePassword(context.Background(), "OldSenha1", "curta")
	require.Error(t, err)
	require.Zero(t, backendCalls.Load())
}

func TestChangePasswordDelegatesWhenStrong(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/change-password", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "NovaSenha1", body["newPassword"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	require.NoError(t, svc.ChangePassword(context.Background(), "OldSenha1", "NovaSenha1"))
}

func TestChangePlanRejectsUnknownTier(t *testing.T) {
	svc := newServiceAgainst(t, "http://127.0.0.1:1")
	_, err := svc.ChangePlan(context.Background(), "gold")
	require.Error(t, err)
}

func TestChangePlanHappyPath(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/payments/subscription", r.URL.Path)
		json.NewEncoder(w).Encode(member.Subscription{Active: true, Plan: checkout.PlanPremium})
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	sub, err := svc.ChangePlan(context.Background(), checkout.PlanPremium)
	require.NoError(t, err)
	require.True(t, sub.Active)
	require.Equal(t, checkout.PlanPremium, sub.Plan)
}

func TestCancelSubscriptionDefaultsToPeriodEnd(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/cancel-subscription", r.URL.Path)
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.True(t, body["atPeriodEnd"])
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	require.NoError(t, svc.CancelSubscription(context.Background(), true))
}

func TestDeleteAccount(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/user", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer backend.Close()

	svc := newServiceAgainst(t, backend.URL)
	require.NoError(t, svc.DeleteAccount(context.Background()))
}
