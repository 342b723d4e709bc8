package export

import (
	"context"
	"fmt"

	"github.com/dharsanguruparan/CareerCopilot/internal/model"
)

// Dispatch hands a prepared artifact to whatever runs exports.
type Dispatch func(ctx context.Context, artifactID string) error

// Service prepares exports and dispatches them. With a nil Dispatch the
// export runs inline before Submit returns.
type Service struct {
	exporter *Exporter
	dispatch Dispatch
}

// NewService builds a Service.
func NewService(exporter *Exporter, dispatch Dispatch) *Service {
	return &Service{exporter: exporter, dispatch: dispatch}
}

// Submit prepares and dispatches an export of the resume page at url and
// returns the artifact as currently recorded.
func (s *Service) Submit(ctx context.Context, resumeID, url string) (model.Artifact, error) {
	artifact, err := s.exporter.Prepare(ctx, resumeID, url)
	if err != nil {
		return model.Artifact{}, err
	}
	if s.dispatch == nil {
		if err := s.exporter.Run(ctx, artifact.ID); err != nil {
			return model.Artifact{}, err
		}
	} else if err := s.dispatch(ctx, artifact.ID); err != nil {
		_ = s.exporter.ledger.MarkFailed(ctx, artifact.ID, err.Error())
		return model.Artifact{}, fmt.Errorf("dispatch export: %w", err)
	}
	return s.Artifact(ctx, artifact.ID)
}

// Artifact returns the recorded state of an artifact.
func (s *Service) Artifact(ctx context.Context, id string) (model.Artifact, error) {
	artifact, err := s.exporter.ledger.Get(ctx, id)
	if err != nil {
		return model.Artifact{}, err
	}
	return *artifact, nil
}

// Artifacts lists every recorded artifact.
func (s *Service) Artifacts(ctx context.Context) ([]model.Artifact, error) {
	return s.exporter.ledger.List(ctx)
}

// Sink returns the sink completed artifacts live in.
func (s *Service) Sink() Sink { return s.exporter.sink }
