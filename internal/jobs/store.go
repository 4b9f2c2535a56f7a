// Package jobs tracks the lifecycle of subtitle generation jobs.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"subgen/models"
)

// Status describes where a job is in its lifecycle.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// ErrNotFound is returned for unknown job ids.
var ErrNotFound = errors.New("job not found")

// Job records one subtitle generation request and its outcome. Result is
// meaningful once Status is done; ErrorKind and Error once it is failed.
type Job struct {
	ID           uuid.UUID              `json:"id"`
	OriginalName string                 `json:"original_name"`
	Status       Status                 `json:"status"`
	Stage        string                 `json:"stage,omitempty"`
	Request      models.PipelineRequest `json:"request"`
	Result       models.PipelineResult  `json:"result"`
	ErrorKind    string                 `json:"error_kind,omitempty"`
	Error        string                 `json:"error,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Store is an in-memory job registry safe for concurrent use. Jobs live for
// the lifetime of the process; there is deliberately no persistence.
type Store struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]Job
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{jobs: make(map[uuid.UUID]Job)}
}

// Create registers a queued job for the given request.
func (s *Store) Create(originalName string, req models.PipelineRequest) Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	job := Job{
		ID:           uuid.New(),
		OriginalName: originalName,
		Status:       StatusQueued,
		Request:      req,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.jobs[job.ID] = job
	return job
}

// Get returns a snapshot of the job.
func (s *Store) Get(id uuid.UUID) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

// SetRunning marks the job as picked up by a worker.
func (s *Store) SetRunning(id uuid.UUID) error {
	return s.update(id, func(job *Job) {
		job.Status = StatusRunning
	})
}

// SetStage records the pipeline stage currently executing for the job.
func (s *Store) SetStage(id uuid.UUID, stage string) error {
	return s.update(id, func(job *Job) {
		job.Stage = stage
	})
}

// Complete stores the pipeline result and marks the job done.
func (s *Store) Complete(id uuid.UUID, result models.PipelineResult) error {
	return s.update(id, func(job *Job) {
		job.Status = StatusDone
		job.Stage = ""
		job.Result = result
	})
}

// Fail records the failure stage, kind, and message.
func (s *Store) Fail(id uuid.UUID, stage, kind, message string) error {
	return s.update(id, func(job *Job) {
		job.Status = StatusFailed
		job.Stage = stage
		job.ErrorKind = kind
		job.Error = message
	})
}

func (s *Store) update(id uuid.UUID, apply func(job *Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	apply(&job)
	job.UpdatedAt = time.Now().UTC()
	s.jobs[id] = job
	return nil
}
