package jobs

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"subgen/models"
)

func sampleRequest() models.PipelineRequest {
	return models.PipelineRequest{
		MediaPath:      "/tmp/u/abc.mp4",
		SourceLanguage: "ES",
		TargetLanguage: "EN",
		Model:          models.ModelLarge,
	}
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStore()
	job := s.Create("holiday.mp4", sampleRequest())

	if job.Status != StatusQueued {
		t.Fatalf("new job status = %q, want queued", job.Status)
	}
	if job.ID == uuid.Nil {
		t.Fatal("job id not assigned")
	}

	if err := s.SetRunning(job.ID); err != nil {
		t.Fatalf("SetRunning() error = %v", err)
	}
	if err := s.SetStage(job.ID, "transcribing"); err != nil {
		t.Fatalf("SetStage() error = %v", err)
	}

	got, err := s.Get(job.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusRunning || got.Stage != "transcribing" {
		t.Fatalf("job = %+v", got)
	}

	result := models.PipelineResult{SubtitlePath: "/out/abc.srt"}
	if err := s.Complete(job.ID, result); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	got, _ = s.Get(job.ID)
	if got.Status != StatusDone || got.Result.SubtitlePath != "/out/abc.srt" || got.Stage != "" {
		t.Fatalf("completed job = %+v", got)
	}
}

func TestStoreFail(t *testing.T) {
	s := NewStore()
	job := s.Create("broken.mp4", sampleRequest())

	if err := s.Fail(job.ID, "translating", "translation_failed", "segment 3: rate limit"); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	got, _ := s.Get(job.ID)
	if got.Status != StatusFailed || got.ErrorKind != "translation_failed" || got.Stage != "translating" {
		t.Fatalf("failed job = %+v", got)
	}
}

func TestStoreUnknownJob(t *testing.T) {
	s := NewStore()
	if _, err := s.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetRunning(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreSnapshotsAreIsolated(t *testing.T) {
	s := NewStore()
	job := s.Create("clip.mp4", sampleRequest())

	snapshot, _ := s.Get(job.ID)
	snapshot.Status = StatusFailed

	got, _ := s.Get(job.ID)
	if got.Status != StatusQueued {
		t.Fatalf("mutating a snapshot leaked into the store: %+v", got)
	}
}
