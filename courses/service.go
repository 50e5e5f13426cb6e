// Package courses lists the formation catalog and manages enrollments,
// with the same degrade-to-mock policy the rest of the member area uses.
package courses

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/thmoreiracosta/uacl/api"
)

// ListResult is a tagged result; Degraded data came from the local mock
// catalog and carries a Warning the caller must render.
type ListResult struct {
	Items    []Course `json:"items"`
	Degraded bool     `json:"degraded"`
	Warning  string   `json:"warning,omitempty"`
}

type Service struct {
	client *api.Client
	log    zerolog.Logger
}

func NewService(client *api.Client, log zerolog.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New("[courses.NewService] api client is required")
	}
	return &Service{client: client, log: log}, nil
}

func (s *Service) List(ctx context.Context) ListResult {
	var items []Course
	if err := s.client.Get(ctx, "/courses", &items); err != nil {
		s.log.Warn().Err(err).Msg("course fetch failed, serving mock catalog")
		return ListResult{
			Items:    MockCourses(),
			Degraded: true,
			Warning:  "Não foi possível carregar os cursos do servidor; exibindo dados locais.",
		}
	}
	return ListResult{Items: items}
}

func (s *Service) Get(ctx context.Context, id string) (*Course, error) {
	var course Course
	if err := s.client.Get(ctx, fmt.Sprintf("/courses/%s", id), &course); err != nil {
		return nil, errors.Wrapf(err, "[Service.Get] course %q", id)
	}
	return &course, nil
}

func (s *Service) Enroll(ctx context.Context, courseID string) (*Enrollment, error) {
	var enrollment Enrollment
	if err := s.client.Post(ctx, fmt.Sprintf("/courses/%s/enroll", courseID), nil, &enrollment); err != nil {
		return nil, errors.Wrapf(err, "[Service.Enroll] course %q", courseID)
	}
	return &enrollment, nil
}
