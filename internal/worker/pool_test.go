package worker

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recordedJob struct {
	id      string
	execute func() error
}

func (j *recordedJob) ID() string     { return j.id }
func (j *recordedJob) Execute() error { return j.execute() }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDispatcherExecutesSubmittedJobs(t *testing.T) {
	d := NewDispatcher(2, 8, quietLogger())
	d.Run()

	var mu sync.Mutex
	executed := map[string]bool{}
	for _, id := range []string{"a", "b", "c"} {
		id := id
		err := d.Submit(&recordedJob{id: id, execute: func() error {
			mu.Lock()
			executed[id] = true
			mu.Unlock()
			return nil
		}})
		if err != nil {
			t.Fatalf("Submit(%s) error = %v", id, err)
		}
	}

	d.Stop()

	for _, id := range []string{"a", "b", "c"} {
		if !executed[id] {
			t.Fatalf("job %s never executed", id)
		}
	}
}

func TestDispatcherQueueFull(t *testing.T) {
	d := NewDispatcher(1, 1, quietLogger())
	// Workers deliberately not started: the queue holds one job, the next
	// submit must be rejected rather than block the caller.
	if err := d.Submit(&recordedJob{id: "first", execute: func() error { return nil }}); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	if err := d.Submit(&recordedJob{id: "second", execute: func() error { return nil }}); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestDispatcherContinuesAfterJobError(t *testing.T) {
	d := NewDispatcher(1, 4, quietLogger())
	d.Run()

	done := make(chan struct{})
	if err := d.Submit(&recordedJob{id: "boom", execute: func() error { return errors.New("boom") }}); err != nil {
		t.Fatal(err)
	}
	if err := d.Submit(&recordedJob{id: "after", execute: func() error { close(done); return nil }}); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job after a failure never executed")
	}
	d.Stop()
}
