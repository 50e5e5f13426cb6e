package server

import (
	"net/http"

	"github.com/thmoreiracosta/uacl/guard"
	"github.com/thmoreiracosta/uacl/session"
)

// waitingBody is the neutral indicator served while a session is still
// rehydrating: no guarded content, no redirect.
const waitingBody = `{"status":"loading"}`

// applyVerdict maps a guard verdict onto the HTTP response. It returns
// true when the guarded handler may run.
func applyVerdict(w http.ResponseWriter, r *http.Request, v guard.Verdict) bool {
	switch v.Decision {
	case guard.Wait:
		w.Header().Set("Retry-After", "1")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(waitingBody))
		return false
	case guard.Redirect:
		http.Redirect(w, r, v.Target, http.StatusSeeOther)
		return false
	}
	return true
}

// RequireMember admits only authenticated sessions; the loading phase is
// resolved before any redirect happens.
func (s *Server) RequireMember() func(http.HandlerFunc) http.HandlerFunc {
	return s.guardMiddleware(guard.ForMembers)
}

// RequireVisitor keeps logged-in members away from login and signup
// surfaces, redirecting them to the dashboard.
func (s *Server) RequireVisitor() func(http.HandlerFunc) http.HandlerFunc {
	return s.guardMiddleware(guard.ForVisitors)
}

func (s *Server) guardMiddleware(decide func(session.State) guard.Verdict) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			v, err := s.visitorFor(w, r)
			if err != nil {
				s.log.Error().Err(err).Msg("visitor bootstrap failed")
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if !applyVerdict(w, r, decide(v.Session.Snapshot())) {
				return
			}
			next(w, r)
		}
	}
}
