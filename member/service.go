// Package member mutates identity and membership attributes against the
// external backend: profile fields, password, plan, account deletion.
package member

import (
	"context"

	"github.com/pkg/errors"

	"github.com/thmoreiracosta/uacl/api"
	"github.com/thmoreiracosta/uacl/checkout"
	"github.com/thmoreiracosta/uacl/identity"
	"github.com/thmoreiracosta/uacl/internal/utils"
	"github.com/thmoreiracosta/uacl/internal/validate"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// backend value untouched.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// Subscription mirrors the backend's view of the member's plan.
type Subscription struct {
	Active           bool            `json:"active"`
	Plan             checkout.PlanID `json:"plan,omitempty"`
	CurrentPeriodEnd string          `json:"currentPeriodEnd,omitempty"`
	CancelAtEnd      bool            `json:"cancelAtPeriodEnd,omitempty"`
}

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) (*Service, error) {
	if client == nil {
		return nil, errors.New("[member.NewService] api client is required")
	}
	return &Service{client: client}, nil
}

// UpdateProfile patches the profile and returns the refreshed identity so
// the session store can be updated. A field that is present must not be
// blank; omitted (nil) fields are left untouched.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*identity.Identity, error) {
	if update.Name != nil && !validate.Required(utils.Value(update.Name)) {
		return nil, errors.New("[Service.UpdateProfile] name cannot be blank")
	}
	if update.Phone != nil && !validate.Phone(utils.Value(update.Phone)) {
		return nil, errors.New("[Service.UpdateProfile] invalid phone number")
	}

	var id identity.Identity
	if err := s.client.Patch(ctx, "/user/profile", update, &id); err != nil {
		return nil, errors.Wrap(err, "[Service.UpdateProfile]")
	}
	return &id, nil
}

// ChangePassword validates strength locally before asking the backend;
// weak passwords never leave the client.
func (s *Service) ChangePassword(ctx context.Context, current, next string) error {
	if err := identity.ValidatePasswordStrength(next); err != nil {
		return err
	}
	body := map[string]string{"currentPassword": current, "newPassword": next}
	if err := s.client.Post(ctx, "/auth/change-password", body, nil); err != nil {
		return errors.Wrap(err, "[Service.ChangePassword]")
	}
	return nil
}

// Subscription fetches the current membership subscription.
func (s *Service) Subscription(ctx context.Context) (*Subscription, error) {
	var sub Subscription
	if err := s.client.Get(ctx, "/payments/subscription", &sub); err != nil {
		return nil, errors.Wrap(err, "[Service.Subscription]")
	}
	return &sub, nil
}

// ChangePlan moves the member to another tier of the closed plan set.
func (s *Service) ChangePlan(ctx context.Context, plan checkout.PlanID) (*Subscription, error) {
	if _, ok := checkout.PlanByID(plan); !ok {
		return nil, errors.Errorf("[Service.ChangePlan] unknown plan %q", plan)
	}
	var sub Subscription
	if err := s.client.Post(ctx, "/payments/subscription", map[string]string{"planId": string(plan)}, &sub); err != nil {
		return nil, errors.Wrap(err, "[Service.ChangePlan]")
	}
	return &sub, nil
}

// CancelSubscription ends the membership, by default at period end.
func (s *Service) CancelSubscription(ctx context.Context, atPeriodEnd bool) error {
	body := map[string]bool{"atPeriodEnd": atPeriodEnd}
	if err := s.client.Post(ctx, "/payments/cancel-subscription", body, nil); err != nil {
		return errors.Wrap(err, "[Service.CancelSubscription]")
	}
	return nil
}

// DeleteAccount removes the account upstream. Callers must log the
// session out afterwards.
func (s *Service) DeleteAccount(ctx context.Context) error {
	if err := s.client.Delete(ctx, "/user"); err != nil {
		return errors.Wrap(err, "[Service.DeleteAccount]")
	}
	return nil
}
