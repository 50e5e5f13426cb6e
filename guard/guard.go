// Package guard decides route admission from session state. Guards are
// pure functions: they make no network calls and hold no state of their
// own.
package guard

import "github.com/thmoreiracosta/uacl/session"

// Decision is the outcome of evaluating a guard.
type Decision int

const (
	// Wait means the session is still rehydrating; render a neutral
	// waiting indicator, neither the guarded content nor a redirect.
	Wait Decision = iota
	// Allow renders the guarded subtree unchanged.
	Allow
	// Redirect sends the visitor to Verdict.Target.
	Redirect
)

// Verdict carries a Decision plus the redirect target when applicable.
type Verdict struct {
	Decision Decision
	Target   string
}

const (
	loginTarget     = "/login"
	dashboardTarget = "/membro/dashboard"
)

// ForMembers admits only authenticated sessions. The loading phase is
// checked before authentication so rehydration never causes a premature
// redirect.
func ForMembers(state session.State) Verdict {
	if state.Loading {
		return Verdict{Decision: Wait}
	}
	if !state.Authenticated() {
		return Verdict{Decision: Redirect, Target: loginTarget}
	}
	return Verdict{Decision: Allow}
}

// ForVisitors admits only unauthenticated sessions; logged-in members are
// sent to their dashboard instead of seeing login or signup pages.
func ForVisitors(state session.State) Verdict {
	if state.Loading {
		return Verdict{Decision: Wait}
	}
	if state.Authenticated() {
		return Verdict{Decision: Redirect, Target: dashboardTarget}
	}
	return Verdict{Decision: Allow}
}
