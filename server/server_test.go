package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/identity/gatewayfakes"
	"github.com/thmoreiracosta/uacl/internal/config"
	"github.com/thmoreiracosta/uacl/server"
	"github.com/thmoreiracosta/uacl/server/visitor"
	"github.com/thmoreiracosta/uacl/vault"
)

// testFixture drives the portal through its HTTP surface, carrying the
// visitor cookie between requests like a browser would.
type testFixture struct {
	t      *testing.T
	portal *server.Server
	cookie *http.Cookie
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	// The membership backend is unreachable; auth runs against the fake
	// gateway and data fetches degrade visibly.
	t.Setenv("API_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("API_TIMEOUT", "200ms")
	t.Setenv("ENV", "TEST")

	fakeFactory := func(v vault.Vault, _ *api.Client) (identity.Gateway, error) {
		return gatewayfakes.NewFakeGateway(v), nil
	}
	portal, err := server.New(config.New(), visitor.NewInMemoryVisitorRepo(), fakeFactory, zerolog.Nop())
	require.NoError(t, err)

	return &testFixture{t: t, portal: portal}
}

func (f *testFixture) do(method, path, body string) *httptest.ResponseRecorder {
	f.t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}

	rec := httptest.NewRecorder()
	f.portal.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "portal_session" {
			f.cookie = c
		}
	}
	return rec
}

func (f *testFixture) login(email, password string) *httptest.ResponseRecorder {
	return f.do(http.MethodPost, "/auth/login", `{"email":"`+email+`","password":"`+password+`"}`)
}

func TestDashboardRedirectsAnonymousToLogin(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/membro/dashboard", "")

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
	require.NotNil(t, f.cookie)
}

func TestLoginOpensMemberArea(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.login("joao@example.com", "password123")
	require.Equal(t, http.StatusOK, rec.Code)

	var loginBody struct {
		User     *identity.Identity `json:"user"`
		Redirect string             `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loginBody))
	require.Equal(t, "João Silva", loginBody.User.Name)
	require.Equal(t, "/membro/dashboard", loginBody.Redirect)

	dashboard := f.do(http.MethodGet, "/membro/dashboard", "")
	require.Equal(t, http.StatusOK, dashboard.Code)

	// The backend is down, so dashboard sections degrade with a warning
	// instead of failing the page.
	var dashBody struct {
		Notifications struct {
			Degraded bool   `json:"degraded"`
			Warning  string `json:"warning"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(dashboard.Body.Bytes(), &dashBody))
	require.True(t, dashBody.Notifications.Degraded)
	require.NotEmpty(t, dashBody.Notifications.Warning)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.login("joao@example.com", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Email ou senha inválidos")
}

func TestLoginSurfaceBlockedForMembers(t *testing.T) {
	f := setupTestFixture(t)

	require.Equal(t, http.StatusOK, f.login("joao@example.com", "password123").Code)

	rec := f.login("joao@example.com", "password123")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/membro/dashboard", rec.Header().Get("Location"))
}

func TestLogoutEndsSession(t *testing.T) {
	f := setupTestFixture(t)

	require.Equal(t, http.StatusOK, f.login("joao@example.com", "password123").Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/auth/logout", "").Code)

	rec := f.do(http.MethodGet, "/membro/dashboard", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestSignupWeakPasswordRejected(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/auth/signup", `{"name":"Maria","email":"maria@example.com","password":"curta"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/auth/signup", `{"name":"Outro","email":"joao@example.com","password":"Senha1234"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "Email já cadastrado")
}

func TestSessionEndpointReflectsState(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Authenticated bool `json:"isAuthenticated"`
		Loading       bool `json:"isLoading"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.False(t, view.Authenticated)
	require.False(t, view.Loading)

	f.login("joao@example.com", "password123")

	rec = f.do(http.MethodGet, "/api/session", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.True(t, view.Authenticated)
}

func TestCheckoutPlansEndpoint(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/api/checkout/plans", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Plans        []checkout.Plan `json:"plans"`
		PixReference string          `json:"pixReference"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Plans, 3)
	require.NotEmpty(t, body.PixReference)
}

func TestCheckoutNextWithoutPlanStaysOnStepOne(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodPost, "/api/checkout/next", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "selecione um tipo de associação")

	state := f.do(http.MethodGet, "/api/checkout", "")
	var view checkout.WizardState
	require.NoError(t, json.Unmarshal(state.Body.Bytes(), &view))
	require.Equal(t, checkout.StepPlan, view.Step)
}

func TestCheckoutFullFlowWithPix(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/payments/membership" {
			var enrollment checkout.Enrollment
			require.NoError(t, json.NewDecoder(r.Body).Decode(&enrollment))
			require.Equal(t, checkout.PlanEfetivo, enrollment.Plan)
			require.Equal(t, checkout.MethodPix, enrollment.Method)
			require.Nil(t, enrollment.Card)
			json.NewEncoder(w).Encode(checkout.Receipt{EnrollmentID: "enr-42", Status: "confirmed"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer backend.Close()

	f := setupTestFixture(t)
	t.Setenv("API_BASE_URL", backend.URL)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/plan", `{"plan":"efetivo"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/next", "").Code)

	personal := `{"firstName":"João","lastName":"Silva","email":"joao@example.com","phone":"11987654321","address":"Rua da Glória, 523","city":"Rio de Janeiro","state":"RJ","zipCode":"20241-180"}`
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/personal", personal).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/next", "").Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/payment-method", `{"paymentMethod":"pix"}`).Code)

	rec := f.do(http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Receipt  checkout.Receipt `json:"receipt"`
		Redirect string           `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "enr-42", body.Receipt.EnrollmentID)
	require.Equal(t, "/pagamento/sucesso", body.Redirect)
}

func TestCheckoutSubmitRejectsInvalidCard(t *testing.T) {
	f := setupTestFixture(t)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/plan", `{"plan":"premium"}`).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/next", "").Code)
	personal := `{"firstName":"João","lastName":"Silva","email":"joao@example.com","phone":"11987654321","address":"Rua da Glória, 523","city":"Rio de Janeiro","state":"RJ","zipCode":"20241-180"}`
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/personal", personal).Code)
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/next", "").Code)

	card := `{"cardNumber":"411111111111111","cardName":"JOAO SILVA","expiryDate":"12/29","cvv":"123"}`
	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/checkout/card", card).Code)

	rec := f.do(http.MethodPost, "/api/checkout/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "cardNumber")
}

func TestMemberAPIGuarded(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/api/member/notifications", "")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestNotificationsMarkReadOverHTTP(t *testing.T) {
	f := setupTestFixture(t)
	require.Equal(t, http.StatusOK, f.login("joao@example.com", "password123").Code)

	list := f.do(http.MethodGet, "/api/member/notifications", "")
	require.Equal(t, http.StatusOK, list.Code)

	var fetched struct {
		Items []struct {
			ID   string `json:"id"`
			Read bool   `json:"read"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &fetched))
	require.NotEmpty(t, fetched.Items)

	rec := f.do(http.MethodPatch, "/api/member/notifications/"+fetched.Items[0].ID+"/read", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var mutated struct {
		Items []struct {
			ID   string `json:"id"`
			Read bool   `json:"read"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mutated))
	require.True(t, mutated.Items[0].Read)
}

func TestFrameSecurityHeaders(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(http.MethodGet, "/api/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "frame-ancestors 'self'", rec.Header().Get("Content-Security-Policy"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := setupTestFixture(t)

	// Generate at least one counted request before scraping.
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/session", "").Code)

	rec := f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "portal_http_requests_total")
}
