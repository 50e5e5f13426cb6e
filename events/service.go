// Package events lists the association's calendar and manages event
// registrations.
package events

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/api"
)

// ListResult is a tagged result; Degraded data came from the local mock
// calendar and carries a Warning the caller must render.
type ListResult struct {
	Items    []Event `json:"items"`
	Degraded bool    `json:"degraded"`
	Warning  string  `json:"warning,omitempty"`
}

type Service struct {
	client *api.Client
	log    zerolog.Logger
}

func NewService(client *api.Client, log zerolog.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("[events.NewService] api client is required")
	}
	return &Service{client: client, log: log}, nil
}

func (s *Service) List(ctx context.Context) ListResult {
	var items []Event
	if err := s.client.Get(ctx, "/events", &items); err != nil {
		s.log.Warn().Err(err).Msg("event fetch failed, serving mock calendar")
		return ListResult{
			Items:    MockEvents(),
			Degraded: true,
			Warning:  "Não foi possível carregar os eventos do servidor; exibindo dados locais.",
		}
	}
	return ListResult{Items: items}
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	var event Event
	if err := s.client.Get(ctx, fmt.Sprintf("/events/%s", id), &event); err != nil {
		return nil, errors.Wrapf(err, "[Service.Get] event %q", id)
	}
	return &event, nil
}

func (s *Service) Register(ctx context.Context, eventID string) (*Registration, error) {
	var registration Registration
	if err := s.client.Post(ctx, fmt.Sprintf("/events/%s/register", eventID), nil, &registration); err != nil {
		return nil, errors.Wrapf(err, "[Service.Register] event %q", eventID)
	}
	return &registration, nil
}

func (s *Service) CancelRegistration(ctx context.Context, eventID string) error {
	if err := s.client.Delete(ctx, fmt.Sprintf("/events/%s/register", eventID)); err != nil {
		return errors.Wrapf(err, "[Service.CancelRegistration] event %q", eventID)
	}
	return nil
}
