package checkout

import (
	"context"

	"github.com/pkg/errors"

	"github.com/thmoreiracosta/uacl/api"
)

var _ Processor = (*BackendProcessor)(nil)

// BackendProcessor submits enrollments to the membership backend through
// the shared API client.
type BackendProcessor struct {
	client *api.Client
}

func NewBackendProcessor(client *api.Client) (*BackendProcessor, error) {
	if client == nil {
		return nil, errors.New("[NewBackendProcessor] api client is required")
	}
	return &BackendProcessor{client: client}, nil
}

func (p *BackendProcessor) SubmitEnrollment(ctx context.Context, enrollment Enrollment) (*Receipt, error) {
	var receipt Receipt
	if err := p.client.Post(ctx, "/payments/membership", enrollment, &receipt); err != nil {
		return nil, errors.Wrap(err, "[BackendProcessor.SubmitEnrollment]")
	}
	return &receipt, nil
}
