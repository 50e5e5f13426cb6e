package server

import (
	"encoding/json"
	"net/http"

	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/member"
	"github.com/thmoreiracosta/uacl/server/visitor"
)

func (s *Server) withVisitor(fn func(http.ResponseWriter, *http.Request, *visitor.Visitor)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		fn(w, r, v)
	}
}

// DashboardHandler aggregates the member landing page data. Degraded
// sections carry their warnings so the caller renders them visibly.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		notifications := v.Notifications.Fetch(r.Context())
		courseList := v.Courses.List(r.Context())
		eventList := v.Events.List(r.Context())
		for resource, degraded := range map[string]bool{
			"notifications": notifications.Degraded,
			"courses":       courseList.Degraded,
			"events":        eventList.Degraded,
		} {
			if degraded {
				degradedFetches.WithLabelValues(resource).Inc()
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"user":          v.Session.Snapshot().Identity,
			"notifications": notifications,
			"courses":       courseList,
			"events":        eventList,
		})
	})
}

// NotificationsHandler lists notifications, degrading visibly.
func (s *Server) NotificationsHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		result := v.Notifications.Fetch(r.Context())
		if result.Degraded {
			degradedFetches.WithLabelValues("notifications").Inc()
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// NotificationReadHandler marks one notification read.
func (s *Server) NotificationReadHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		items, err := v.Notifications.MarkRead(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "notificação não encontrada")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	})
}

// NotificationsReadAllHandler marks every notification read.
func (s *Server) NotificationsReadAllHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		items := v.Notifications.MarkAllRead(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	})
}

// CoursesHandler lists the formation catalog.
func (s *Server) CoursesHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		result := v.Courses.List(r.Context())
		if result.Degraded {
			degradedFetches.WithLabelValues("courses").Inc()
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// CourseEnrollHandler enrolls the member in a course.
func (s *Server) CourseEnrollHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		enrollment, err := v.Courses.Enroll(r.Context(), r.PathValue("id"))
		if err != nil {
			s.log.Warn().Err(err).Msg("course enrollment failed")
			writeError(w, http.StatusBadGateway, "não foi possível concluir a inscrição")
			return
		}
		writeJSON(w, http.StatusCreated, enrollment)
	})
}

// EventsHandler lists the calendar.
func (s *Server) EventsHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		result := v.Events.List(r.Context())
		if result.Degraded {
			degradedFetches.WithLabelValues("events").Inc()
		}
		writeJSON(w, http.StatusOK, result)
	})
}

// EventRegisterHandler registers the member for an event.
func (s *Server) EventRegisterHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		registration, err := v.Events.Register(r.Context(), r.PathValue("id"))
		if err != nil {
			s.log.Warn().Err(err).Msg("event registration failed")
			writeError(w, http.StatusBadGateway, "não foi possível concluir a inscrição")
			return
		}
		writeJSON(w, http.StatusCreated, registration)
	})
}

// ProfileHandler mutates profile fields and refreshes the session
// identity with the backend's answer.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		var update member.ProfileUpdate
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id, err := v.Member.UpdateProfile(r.Context(), update)
		if err != nil {
			s.log.Warn().Err(err).Msg("profile update failed")
			writeError(w, http.StatusBadGateway, "não foi possível atualizar o perfil")
			return
		}
		v.Session.SetIdentity(id)
		writeJSON(w, http.StatusOK, id)
	})
}

// ChangePasswordHandler validates strength locally, then delegates.
func (s *Server) ChangePasswordHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		var req struct {
			CurrentPassword string `json:"currentPassword"`
			NewPassword     string `json:"newPassword"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := v.Member.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "changed"})
	})
}

// SubscriptionHandler reads or changes the membership plan.
func (s *Server) SubscriptionHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		if r.Method == http.MethodGet {
			sub, err := v.Member.Subscription(r.Context())
			if err != nil {
				writeError(w, http.StatusBadGateway, "assinatura indisponível")
				return
			}
			writeJSON(w, http.StatusOK, sub)
			return
		}

		var req struct {
			Plan checkout.PlanID `json:"planId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sub, err := v.Member.ChangePlan(r.Context(), req.Plan)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "não foi possível alterar o plano")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	})
}

// CancelSubscriptionHandler ends the membership at period end.
func (s *Server) CancelSubscriptionHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		if err := v.Member.CancelSubscription(r.Context(), true); err != nil {
			writeError(w, http.StatusBadGateway, "não foi possível cancelar a assinatura")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "canceled"})
	})
}

// DeleteAccountHandler removes the account and ends the session.
func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return s.withVisitor(func(w http.ResponseWriter, r *http.Request, v *visitor.Visitor) {
		if err := v.Member.DeleteAccount(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, "não foi possível excluir a conta")
			return
		}
		if err := v.Session.Logout(r.Context()); err != nil {
			s.log.Warn().Err(err).Msg("logout after account deletion reported an error")
		}
		writeJSON(w, http.StatusOK, map[string]string{"redirect": RouteLogin})
	})
}
