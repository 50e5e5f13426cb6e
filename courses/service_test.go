package courses_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/courses"
	"github.com/thmoreiracosta/uacl/vault"
)

func newServiceAgainst(t *testing.T, baseURL string) *courses.Service {
	t.Helper()
	client, err := api.NewClient(baseURL, vault.NewMemory(), 500*time.Millisecond)
	require.NoError(t, err)
	svc, err := courses.NewService(client, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestListFromBackend(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]courses.Course{{ID: "c-1", Title: "Introdução à Doutrina Social"}})
	}))
	defer backend.Close()

	result := newServiceAgainst(t, backend.URL).List(context.Background())
	require.False(t, result.Degraded)
	require.Len(t, result.Items, 1)
}

func TestListDegradesToMockCatalog(t *testing.T) {
	result := newServiceAgainst(t, "http://127.0.0.1:1").List(context.Background())

	require.True(t, result.Degraded)
	require.NotEmpty(t, result.Warning)
	require.Equal(t, courses.MockCourses(), result.Items)
}

func TestEnroll(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/courses/c-1/enroll", r.URL.Path)
		json.NewEncoder(w).Encode(courses.Enrollment{ID: "enr-1", CourseID: "c-1"})
	}))
	defer backend.Close()

	enrollment, err := newServiceAgainst(t, backend.URL).Enroll(context.Background(), "c-1")
	require.NoError(t, err)
	require.Equal(t, "c-1", enrollment.CourseID)
}

func TestEnrollBackendFailure(t *testing.T) {
	_, err := newServiceAgainst(t, "http://127.0.0.1:1").Enroll(context.Background(), "c-1")
	require.Error(t, err)
}
