package server

import (
	"encoding/json"
	"net/http"

	"github.com/thmoreiracosta/uacl/checkout"
	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
)

type stepErrorView struct {
	Error  string               `json:"error"`
	Fields checkout.FieldErrors `json:"fields,omitempty"`
}

func writeStepError(w http.ResponseWriter, err error) bool {
	var stepErr *checkout.StepError
	if apperrors.As(err, &stepErr) {
		writeJSON(w, http.StatusUnprocessableEntity, stepErrorView{
			Error:  stepErr.Message,
			Fields: stepErr.Fields,
		})
		return true
	}
	return false
}

// CheckoutPlansHandler lists the membership catalog.
func (s *Server) CheckoutPlansHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"plans":        checkout.Plans(),
			"pixReference": s.config.GetPixKey(),
		})
	}
}

// CheckoutStateHandler returns the wizard snapshot for rendering.
func (s *Server) CheckoutStateHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutSelectPlanHandler records the chosen tier at step 1.
func (s *Server) CheckoutSelectPlanHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		var req struct {
			Plan checkout.PlanID `json:"plan"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := wizard.SelectPlan(req.Plan); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "plano desconhecido")
			return
		}
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutPersonalHandler stores the step 2 fields.
func (s *Server) CheckoutPersonalHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		var req checkout.PersonalDetails
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		wizard.SetPersonal(req)
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutMethodHandler switches between credit card and PIX.
func (s *Server) CheckoutMethodHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		var req struct {
			Method checkout.PaymentMethod `json:"paymentMethod"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := wizard.SetPaymentMethod(req.Method); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "método de pagamento desconhecido")
			return
		}
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutCardHandler stores the card fields entered at step 3.
func (s *Server) CheckoutCardHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		var req checkout.CardDetails
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		wizard.SetCard(req)
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutNextHandler advances one step; a gated transition returns the
// per-field errors and leaves the step unchanged.
func (s *Server) CheckoutNextHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		if err := wizard.Next(); err != nil {
			if writeStepError(w, err) {
				return
			}
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutBackHandler moves one step back, preserving entered values.
func (s *Server) CheckoutBackHandler() http.HandlerFunc {
	return s.withCheckout(func(w http.ResponseWriter, r *http.Request, wizard *checkout.Wizard) {
		wizard.Back()
		writeJSON(w, http.StatusOK, wizard.State())
	})
}

// CheckoutSubmitHandler performs the single side-effecting submission and
// hands the confirmation redirect to the caller.
func (s *Server) CheckoutSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		receipt, err := v.Checkout.Submit(r.Context(), v.Processor)
		if err != nil {
			checkoutSubmissions.WithLabelValues("rejected").Inc()
			switch {
			case writeStepError(w, err):
			case apperrors.Is(err, apperrors.ErrSubmissionInFlight):
				writeError(w, http.StatusConflict, "pagamento já em processamento")
			case apperrors.Is(err, apperrors.ErrSubmissionNotReady):
				writeError(w, http.StatusConflict, "finalize as etapas anteriores")
			default:
				s.log.Warn().Err(err).Msg("checkout submission failed")
				writeError(w, http.StatusBadGateway, "não foi possível concluir o pagamento")
			}
			return
		}

		checkoutSubmissions.WithLabelValues("accepted").Inc()
		writeJSON(w, http.StatusOK, map[string]any{
			"receipt":  receipt,
			"redirect": checkout.SuccessPath,
		})
	}
}

func (s *Server) withCheckout(fn func(http.ResponseWriter, *http.Request, *checkout.Wizard)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.visitorFor(w, r)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		fn(w, r, v.Checkout)
	}
}
