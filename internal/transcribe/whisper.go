// Package transcribe wraps the external whisper CLI and normalizes its
// output into the transcript segment model.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"subgen/models"
)

// EngineError reports a transcription failure with the underlying cause and
// any stderr the engine produced.
type EngineError struct {
	Message string
	Stderr  string
	Err     error
}

func (e *EngineError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %s", e.Message, strings.TrimSpace(e.Stderr))
	}
	return e.Message
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// transcriptFile mirrors the JSON document the whisper CLI writes alongside
// its other output formats: segment times are in seconds.
type transcriptFile struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Engine invokes the whisper CLI for one media file at a time. It holds no
// per-run state; concurrent pipeline runs each get a private temp directory.
type Engine struct {
	binPath   string
	log       *logrus.Logger
	runner    commandRunner
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
	readFile  func(name string) ([]byte, error)
}

// NewEngine builds the production engine around the given whisper binary.
func NewEngine(binPath string, log *logrus.Logger) *Engine {
	return &Engine{
		binPath:   binPath,
		log:       log,
		runner:    &execRunner{},
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
		readFile:  os.ReadFile,
	}
}

// Transcribe runs the engine against mediaPath and returns the transcript as
// ordered segments indexed 1..N. The language hint is passed lowercase; the
// engine is asked for its translate task, so the returned text may already be
// in the engine's pivot language. Engine failures are returned as
// *EngineError with the cause preserved.
func (e *Engine) Transcribe(ctx context.Context, mediaPath string, model models.ModelSpec, language string) ([]models.Segment, error) {
	workDir, err := e.mkdirTemp("", "subgen-whisper-*")
	if err != nil {
		return nil, &EngineError{Message: "create transcription workspace", Err: err}
	}
	defer func() {
		if err := e.removeAll(workDir); err != nil {
			e.log.WithError(err).Warn("Failed to remove transcription workspace")
		}
	}()

	args := buildWhisperArgs(mediaPath, model, language, workDir)
	result, runErr := e.runner.Run(ctx, e.binPath, args...)
	if runErr != nil {
		return nil, &EngineError{
			Message: fmt.Sprintf("whisper exited with code %d", result.ExitCode),
			Stderr:  result.Stderr,
			Err:     runErr,
		}
	}

	jsonPath := filepath.Join(workDir, transcriptBaseName(mediaPath)+".json")
	raw, err := e.readFile(jsonPath)
	if err != nil {
		return nil, &EngineError{
			Message: "whisper completed but transcript JSON is missing",
			Stderr:  result.Stderr,
			Err:     err,
		}
	}

	var transcript transcriptFile
	if err := json.Unmarshal(raw, &transcript); err != nil {
		return nil, &EngineError{Message: "decode transcript JSON", Err: err}
	}

	segments := make([]models.Segment, 0, len(transcript.Segments))
	for i, s := range transcript.Segments {
		// Segments must span a positive duration; downstream timecodes rely
		// on it.
		if s.End <= s.Start {
			return nil, &EngineError{
				Message: fmt.Sprintf("transcript segment %d has a non-positive duration (%.3f..%.3f)", i+1, s.Start, s.End),
				Stderr:  result.Stderr,
			}
		}
		segments = append(segments, models.Segment{
			Index:      i + 1,
			StartTime:  s.Start,
			EndTime:    s.End,
			SourceText: strings.TrimSpace(s.Text),
		})
	}

	e.log.WithFields(logrus.Fields{
		"media":    filepath.Base(mediaPath),
		"model":    model,
		"segments": len(segments),
	}).Info("Transcription complete")
	return segments, nil
}

// buildWhisperArgs builds the CLI invocation for a JSON transcript written
// into workDir.
func buildWhisperArgs(mediaPath string, model models.ModelSpec, language, workDir string) []string {
	return []string{
		mediaPath,
		"--model", string(model),
		"--language", models.LanguageHint(language),
		"--task", "translate",
		"--output_format", "json",
		"--output_dir", workDir,
	}
}

// transcriptBaseName returns the stem whisper uses for its output files.
func transcriptBaseName(mediaPath string) string {
	base := filepath.Base(mediaPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
