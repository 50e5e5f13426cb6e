// Package visitor tracks per-browser portal state. Each visitor gets an
// isolated vault, session store and checkout wizard, keyed by the portal
// session cookie.
package visitor

import (
	"time"

	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/courses"
	"github.com/thmoreiracosta/uacl/events"
	"github.com/thmoreiracosta/uacl/member"
	"github.com/thmoreiracosta/uacl/notify"
	"github.com/thmoreiracosta/uacl/session"
	"github.com/thmoreiracosta/uacl/vault"
)

// Visitor bundles everything the portal holds for one browser session.
type Visitor struct {
	ID        string
	CreatedAt time.Time

	Vault     vault.Vault
	Session   *session.Store
	Checkout  *checkout.Wizard
	Processor checkout.Processor

	Notifications *notify.Service
	Courses       *courses.Service
	Events        *events.Service
	Member        *member.Service
}

type Repo interface {
	Upsert(visitorID string, v *Visitor) error
	Get(visitorID string) (*Visitor, error)
	Delete(visitorID string) error
}
