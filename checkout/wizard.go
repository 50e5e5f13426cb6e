// Package checkout implements the three-step membership purchase flow:
// plan selection, personal data, payment. Steps are ordered and
// non-skippable; forward transitions are gated by validation and all
// transient state is lost if the flow is abandoned.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
)

// Step identifies the wizard position.
type Step int

const (
	StepPlan Step = iota + 1
	StepPersonal
	StepPayment
)

// PaymentMethod selects how the membership is paid at step 3.
type PaymentMethod string

const (
	MethodCreditCard PaymentMethod = "credit-card"
	MethodPix        PaymentMethod = "pix"
)

// SuccessPath is the confirmation destination after a completed
// submission.
const SuccessPath = "/pagamento/sucesso"

// StepError is returned when a forward transition is rejected; it carries
// the user-visible message and any per-field errors.
type StepError struct {
	Message string
	Fields  FieldErrors
	err     error
}

func (e *StepError) Error() string { return e.Message }
func (e *StepError) Unwrap() error { return e.err }

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Wizard is the checkout state machine. One instance per visitor; it is
// safe for the handler goroutines of a single visitor session.
type Wizard struct {
	mu           sync.Mutex
	step         Step
	selectedPlan PlanID
	method       PaymentMethod
	personal     PersonalDetails
	card         CardDetails
	submitting   bool
}

func NewWizard() *Wizard {
	return &Wizard{step: StepPlan, method: MethodCreditCard}
}

// WizardState is a snapshot for rendering.
type WizardState struct {
	Step         Step            `json:"step"`
	SelectedPlan PlanID          `json:"selectedPlan,omitempty"`
	Method       PaymentMethod   `json:"paymentMethod"`
	Personal     PersonalDetails `json:"personal"`
	Submitting   bool            `json:"submitting"`
}

func (w *Wizard) State() WizardState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return WizardState{
		Step:         w.step,
		SelectedPlan: w.selectedPlan,
		Method:       w.method,
		Personal:     w.personal,
		Submitting:   w.submitting,
	}
}

// SelectPlan records the chosen tier. Unknown identifiers are rejected.
func (w *Wizard) SelectPlan(id PlanID) error {
	if _, ok := PlanByID(id); !ok {
		return errors.Wrapf(apperrors.ErrInvalidPlan, "plan %q", id)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.selectedPlan = id
	return nil
}

// SetPersonal stores the step 2 fields. Values are kept even when invalid
// so going back preserves what was typed; validation happens on Next.
func (w *Wizard) SetPersonal(p PersonalDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.personal = p
}

// SetPaymentMethod switches between credit card and PIX. Previously
// entered card fields are retained; they are simply not submitted when PIX
// is ultimately chosen.
func (w *Wizard) SetPaymentMethod(m PaymentMethod) error {
	if m != MethodCreditCard && m != MethodPix {
		return errors.Errorf("[Wizard.SetPaymentMethod] unknown method %q", m)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.method = m
	return nil
}

// SetCard stores the credit-card fields entered at step 3.
func (w *Wizard) SetCard(c CardDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.card = c
}

// Next advances one step. A rejected transition returns a *StepError and
// leaves the step unchanged.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepPlan:
		if w.selectedPlan == "" {
			return &StepError{
				Message: "Por favor, selecione um tipo de associação",
				err:     apperrors.ErrNoPlanSelected,
			}
		}
		w.step = StepPersonal
	case StepPersonal:
		if fieldErrs := ValidatePersonal(w.personal); len(fieldErrs) > 0 {
			return &StepError{
				Message: "Verifique os campos destacados",
				Fields:  fieldErrs,
				err:     apperrors.ErrInvalidPersonalData,
			}
		}
		w.step = StepPayment
	case StepPayment:
		return errors.New("[Wizard.Next] already at payment step")
	}
	return nil
}

// Back moves one step towards plan selection. It is always permitted and
// preserves previously entered values.
func (w *Wizard) Back() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > StepPlan {
		w.step--
	}
}

// Enrollment is the bundle sent to the payment backend on submission.
type Enrollment struct {
	Plan     PlanID          `json:"plan"`
	Method   PaymentMethod   `json:"paymentMethod"`
	Personal PersonalDetails `json:"personal"`
	Card     *CardDetails    `json:"card,omitempty"`
}

// Receipt is the backend's answer to a successful submission.
type Receipt struct {
	EnrollmentID string `json:"enrollmentId"`
	Status       string `json:"status"`
}

// Processor performs the side-effecting submission against the payment
// backend.
type Processor interface {
	SubmitEnrollment(ctx context.Context, enrollment Enrollment) (*Receipt, error)
}

// Submit validates the payment step and performs the single backend call
// bundling plan, personal and payment data. Card validation failures
// reject the submission before any backend call. On success the caller
// should redirect to SuccessPath. A second Submit while one is in flight
// is rejected.
func (w *Wizard) Submit(ctx context.Context, processor Processor) (*Receipt, error) {
	w.mu.Lock()
	if w.step != StepPayment {
		w.mu.Unlock()
		return nil, apperrors.ErrSubmissionNotReady
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, apperrors.ErrSubmissionInFlight
	}

	enrollment := Enrollment{
		Plan:     w.selectedPlan,
		Method:   w.method,
		Personal: w.personal,
	}
	if w.method == MethodCreditCard {
		if fieldErrs := ValidateCard(w.card, NowTimeFunc()); len(fieldErrs) > 0 {
			w.mu.Unlock()
			return nil, &StepError{
				Message: "Verifique os dados do cartão",
				Fields:  fieldErrs,
				err:     apperrors.ErrInvalidPaymentData,
			}
		}
		card := w.card
		enrollment.Card = &card
	}
	w.submitting = true
	w.mu.Unlock()

	receipt, err := processor.SubmitEnrollment(ctx, enrollment)

	w.mu.Lock()
	w.submitting = false
	w.mu.Unlock()

	if err != nil {
		return nil, errors.Wrap(err, "[Wizard.Submit]")
	}
	return receipt, nil
}
