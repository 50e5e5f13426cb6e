package identity

import (
	"context"

	apperrors "github.com/thmoreiracosta/uacl/internal/errors"
)

// Re-exported so callers can match gateway failures without importing
// internal/errors directly.
var (
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrEmailInUse         = apperrors.ErrEmailInUse
)

// Gateway is the façade over the external identity/credential service.
// Implementations must be swappable (fake vs HTTP) without the session
// store or guards noticing.
type Gateway interface {
	// Login exchanges credentials for an Identity. Fails with
	// ErrInvalidCredentials when the backend rejects the pair.
	Login(ctx context.Context, email, password string) (*Identity, error)

	// Logout ends the upstream session. Transport errors only; callers
	// treat any outcome as logged out locally.
	Logout(ctx context.Context) error

	// Register creates an account. Fails with ErrEmailInUse when the
	// address is taken.
	Register(ctx context.Context, name, email, password string) (*Identity, error)

	// CurrentIdentity resolves the identity of the existing upstream
	// session, or (nil, nil) when there is none. Absence is not an error.
	CurrentIdentity(ctx context.Context) (*Identity, error)
}
