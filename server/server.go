package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/courses"
	"github.com/thmoreiracosta/uacl/events"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/internal/config"
	"github.com/thmoreiracosta/uacl/member"
	"github.com/thmoreiracosta/uacl/notify"
	"github.com/thmoreiracosta/uacl/server/visitor"
	"github.com/thmoreiracosta/uacl/session"
	"github.com/thmoreiracosta/uacl/vault"
)

const visitorCookieName = "portal_session"

// GatewayFactory builds the identity gateway for a new visitor. Swapping
// the factory swaps the whole backend (fake vs HTTP) without touching the
// session store or guards.
type GatewayFactory func(v vault.Vault, client *api.Client) (identity.Gateway, error)

type Server struct {
	env      string // Environment (e.g., "DEV", "production")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	visitors visitor.Repo
	gateway  GatewayFactory
	log      zerolog.Logger
}

func New(cfg config.Config, visitors visitor.Repo, gateway GatewayFactory, logger zerolog.Logger) (*Server, error) {
	if visitors == nil {
		return nil, errors.New("[Server New] visitor repo is required")
	}
	if gateway == nil {
		return nil, errors.New("[Server New] gateway factory is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		visitors: visitors,
		gateway:  gateway,
		log:      logger,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

// newVisitor wires an isolated state bundle for one browser session: its
// own vault, API client, gateway, session store and checkout wizard.
func (s *Server) newVisitor() (*visitor.Visitor, error) {
	vlt := vault.NewMemory()

	var store *session.Store
	client, err := api.NewClient(
		s.config.GetAPIBaseURL(),
		vlt,
		s.config.GetRequestTimeout(),
		api.WithLogger(s.log),
		api.WithSessionExpiredHook(func() {
			// Forced logout: the next guard evaluation redirects to /login.
			if store != nil {
				store.SetIdentity(nil)
			}
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] api client")
	}

	gateway, err := s.gateway(vlt, client)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] gateway")
	}
	store, err = session.NewStore(gateway, session.WithLogger(s.log))
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] session store")
	}

	processor, err := checkout.NewBackendProcessor(client)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] processor")
	}
	notifications, err := notify.NewService(client, notify.WithLogger(s.log))
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] notifications")
	}
	courseSvc, err := courses.NewService(client, s.log)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] courses")
	}
	eventSvc, err := events.NewService(client, s.log)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] events")
	}
	memberSvc, err := member.NewService(client)
	if err != nil {
		return nil, errors.Wrap(err, "[Server.newVisitor] member")
	}

	return &visitor.Visitor{
		ID:            uuid.New().String(),
		CreatedAt:     time.Now(),
		Vault:         vlt,
		Session:       store,
		Checkout:      checkout.NewWizard(),
		Processor:     processor,
		Notifications: notifications,
		Courses:       courseSvc,
		Events:        eventSvc,
		Member:        memberSvc,
	}, nil
}

// visitorFor returns the visitor bound to the request cookie, creating one
// (and setting the cookie) on first contact. New sessions rehydrate before
// the first guard evaluation.
func (s *Server) visitorFor(w http.ResponseWriter, r *http.Request) (*visitor.Visitor, error) {
	if cookie, err := r.Cookie(visitorCookieName); err == nil && cookie.Value != "" {
		if v, err := s.visitors.Get(cookie.Value); err == nil {
			return v, nil
		}
	}

	v, err := s.newVisitor()
	if err != nil {
		return nil, err
	}
	if err := s.visitors.Upsert(v.ID, v); err != nil {
		return nil, errors.Wrap(err, "[Server.visitorFor] store visitor")
	}
	v.Session.Initialize(r.Context())

	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    v.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return v, nil
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
