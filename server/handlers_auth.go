package server

import (
	"encoding/json"
	"net/http"

	"github.com/thmoreiracosta/uacl/identity"
	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

type credentialsRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionView struct {
	User          *identity.Identity `json:"user"`
	Authenticated bool               `json:"isAuthenticated"`
	Loading       bool               `json:"isLoading"`
}

// SessionHandler exposes the visitor's session snapshot.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		state := v.Session.Snapshot()
		writeJSON(w, http.StatusOK, sessionView{
			User:          state.Identity,
			Authenticated: state.Authenticated(),
			Loading:       state.Loading,
		})
	}
}

// LoginHandler processes a credential submission. Credential failures map
// to an inline message for the form; nothing is retried.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := v.Session.Login(r.Context(), req.Email, req.Password); err != nil {
			if apperrors.Is(err, identity.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, "Email ou senha inválidos")
				return
			}
			s.log.Warn().Err(err).Msg("login failed")
			writeError(w, http.StatusBadGateway, "login unavailable")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":     v.Session.Snapshot().Identity,
			"redirect": RouteMemberDashboard,
		})
	}
}

// LogoutHandler ends the session; the visitor is logged out locally even
// when the backend call failed.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if err := v.Session.Logout(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("logout reported an error, session cleared anyway")
		}
		writeJSON(w, http.StatusOK, map[string]string{"redirect": RouteLogin})
	}
}

// SignupHandler registers a new account and opens a session.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := identity.ValidatePasswordStrength(req.Password); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := v.Session.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
			if apperrors.Is(err, identity.ErrEmailInUse) {
				writeError(w, http.StatusConflict, "Email já cadastrado")
				return
			}
			s.log.Warn().Err(err).Msg("signup failed")
			writeError(w, http.StatusBadGateway, "signup unavailable")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"user":     v.Session.Snapshot().Identity,
			"redirect": RouteMemberDashboard,
		})
	}
}
