package jobs

import (
	"context"
	"errors"

	"subgen/internal/pipeline"
	"subgen/models"
)

// PipelineRunner is the orchestration capability a job executes against.
type PipelineRunner interface {
	Run(ctx context.Context, req models.PipelineRequest, onStage pipeline.StageFunc) (models.PipelineResult, error)
}

// PipelineJob binds one stored job to the orchestrator. It implements the
// worker pool's Job interface.
type PipelineJob struct {
	store  *Store
	runner PipelineRunner
	job    Job
}

// NewPipelineJob creates the executable unit for a stored job.
func NewPipelineJob(store *Store, runner PipelineRunner, job Job) *PipelineJob {
	return &PipelineJob{store: store, runner: runner, job: job}
}

// ID returns the stored job's identifier.
func (p *PipelineJob) ID() string {
	return p.job.ID.String()
}

// Execute runs the pipeline and records the outcome in the store. Stage
// transitions are mirrored into the store while the run executes; stage and
// error kind from the pipeline's tagged failures are preserved so callers
// see exactly where a run died.
func (p *PipelineJob) Execute() error {
	if err := p.store.SetRunning(p.job.ID); err != nil {
		return err
	}

	result, err := p.runner.Run(context.Background(), p.job.Request, func(stage pipeline.Stage) {
		_ = p.store.SetStage(p.job.ID, string(stage))
	})
	if err != nil {
		stage, kind := "", ""
		var pErr *pipeline.Error
		if errors.As(err, &pErr) {
			stage = string(pErr.Stage)
			kind = string(pErr.Kind)
		}
		if failErr := p.store.Fail(p.job.ID, stage, kind, err.Error()); failErr != nil {
			return failErr
		}
		return err
	}
	return p.store.Complete(p.job.ID, result)
}
