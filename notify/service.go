// Package notify fetches and mutates member notifications. Fetch degrades
// to a fixed local list with a visible warning when the backend is
// unreachable; read-state mutations are optimistic and never rolled back.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/api"
)

// FetchResult is a tagged result: Degraded marks data that fell back from
// the live backend to the local mock, with a non-empty Warning the caller
// must render.
type FetchResult struct {
	Items    []Notification `json:"items"`
	Degraded bool           `json:"degraded"`
	Warning  string         `json:"warning,omitempty"`
}

type Service struct {
	mu     sync.Mutex
	client *api.Client
	items  []Notification
	log    zerolog.Logger
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(client *api.Client, options ...ServiceOption) (*Service, error) {
	if client == nil {
		return nil, errors.New("[notify.NewService] api client is required")
	}
	s := &Service{client: client, log: zerolog.Nop()}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Fetch loads notifications from the backend, degrading to the mock list
// on any failure. The degraded case is never silent.
func (s *Service) Fetch(ctx context.Context) FetchResult {
	var items []Notification
	err := s.client.Get(ctx, "/notifications", &items)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("notification fetch failed, serving mock list")
		s.items = MockNotifications()
		return FetchResult{
			Items:    s.snapshotLocked(),
			Degraded: true,
			Warning:  "Não foi possível carregar as notificações do servidor; exibindo dados locais.",
		}
	}

	s.items = items
	return FetchResult{Items: s.snapshotLocked()}
}

// MarkRead flips one notification to read. The local update is optimistic:
// a backend failure is only logged and the local change stands.
func (s *Service) MarkRead(ctx context.Context, id string) ([]Notification, error) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			found = true
			break
		}
	}
	items := s.snapshotLocked()
	s.mu.Unlock()

	if !found {
		return items, errors.Errorf("[Service.MarkRead] unknown notification %q", id)
	}

	if err := s.client.Patch(ctx, fmt.Sprintf("/notifications/%s/read", id), nil, nil); err != nil {
		s.log.Warn().Err(err).Str("notification", id).Msg("mark-as-read not persisted")
	}
	return items, nil
}

// MarkAllRead flips every notification to read, optimistically.
func (s *Service) MarkAllRead(ctx context.Context) []Notification {
	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	items := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.client.Patch(ctx, "/notifications/read-all", nil, nil); err != nil {
		s.log.Warn().Err(err).Msg("mark-all-as-read not persisted")
	}
	return items
}

func (s *Service) snapshotLocked() []Notification {
	out := make([]Notification, len(s.items))
	copy(out, s.items)
	return out
}
