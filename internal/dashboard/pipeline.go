package dashboard

import (
	"context"
	"fmt"
	"time"

	"wgdash/internal/metrics"
	"wgdash/internal/model"
)

// Gateway is the status API the dashboard polls.
type Gateway interface {
	Status(ctx context.Context) (*model.StatusSnapshot, error)
	Logs(ctx context.Context, tail int) (string, error)
	Health(ctx context.Context) (model.Health, error)
	Events(ctx context.Context, window int) ([]model.Event, error)
	Restart(ctx context.Context) error
}

// Iteration carries one status poll through the pipeline.
type Iteration struct {
	StartedAt   time.Time
	Status      *model.StatusSnapshot
	Rates       metrics.RateSample
	Transitions []model.Event
	Logs        string
}

// Stage is one step of a status iteration. A returned error aborts the
// iteration.
type Stage struct {
	Name string
	Run  func(ctx context.Context, it *Iteration) error
}

// Pipeline is an ordered list of stages composed once at startup.
type Pipeline []Stage

// Run executes the stages in order and stops at the first error, which is
// wrapped with the failing stage's name.
func (p Pipeline) Run(ctx context.Context, it *Iteration) error {
	for _, st := range p {
		if err := st.Run(ctx, it); err != nil {
			return &StageError{Stage: st.Name, Err: err}
		}
	}
	return nil
}

// StageError reports which stage aborted an iteration. Its text is the
// underlying error so the alert strip shows e.g. "status 503".
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }

func (e *StageError) Unwrap() error { return e.Err }

// StatusPipeline builds fetch status, derive rates, detect transitions,
// fetch logs and commit, in that order.
func StatusPipeline(gw Gateway, s *Session, logTail int, inst *Instruments) Pipeline {
	return Pipeline{
		{Name: "fetch-status", Run: func(ctx context.Context, it *Iteration) error {
			st, err := gw.Status(ctx)
			if err != nil {
				return err
			}
			if st == nil {
				return fmt.Errorf("status: empty response")
			}
			it.Status = st
			return nil
		}},
		{Name: "derive-rates", Run: func(_ context.Context, it *Iteration) error {
			it.Rates = s.IngestStatus(it.Status, it.StartedAt)
			inst.observeStatus(it.Status, it.Rates)
			return nil
		}},
		{Name: "detect-transitions", Run: func(_ context.Context, it *Iteration) error {
			it.Transitions = s.IngestPeerTransitions(it.Status, it.StartedAt)
			return nil
		}},
		{Name: "fetch-logs", Run: func(ctx context.Context, it *Iteration) error {
			text, err := gw.Logs(ctx, logTail)
			if err != nil {
				return err
			}
			it.Logs = text
			s.IngestLogs(text)
			return nil
		}},
		{Name: "commit", Run: func(_ context.Context, it *Iteration) error {
			s.Commit(it.Status, it.StartedAt)
			return nil
		}},
	}
}
