// Package ffmpeg wraps the external ffmpeg/ffprobe tools for subtitle
// burn-in and media probing.
package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MuxError reports a failed burn-in invocation with the tool's stderr.
type MuxError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *MuxError) Error() string {
	return fmt.Sprintf("ffmpeg subtitle burn-in failed (exit %d): %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

func (e *MuxError) Unwrap() error {
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

// Muxer burns subtitle files into video containers via ffmpeg.
type Muxer struct {
	ffmpegPath  string
	ffprobePath string
	log         *logrus.Logger
	runner      commandRunner
	stat        func(name string) (os.FileInfo, error)
}

// NewMuxer builds the production muxer around the given ffmpeg binary. The
// ffprobe binary is assumed to sit next to it under the conventional name.
func NewMuxer(ffmpegPath string, log *logrus.Logger) *Muxer {
	return &Muxer{
		ffmpegPath:  ffmpegPath,
		ffprobePath: "ffprobe",
		log:         log,
		runner:      &execRunner{},
		stat:        os.Stat,
	}
}

// buildMuxArgs builds the burn-in invocation: render the subtitle file into
// the video stream, re-encoding with x264/aac.
func buildMuxArgs(videoPath, subtitlePath, outputPath string) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("subtitles=%s", subtitlePath),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-strict", "experimental",
		outputPath,
	}
}

// Mux renders subtitlePath into videoPath, writing the result to outputPath.
// The external tool runs as a single synchronous call; a non-zero exit or a
// missing output file is returned as *MuxError, never a crash.
func (m *Muxer) Mux(ctx context.Context, videoPath, subtitlePath, outputPath string) error {
	if _, err := m.stat(videoPath); err != nil {
		return &MuxError{Stderr: "input video not readable", Err: err}
	}
	if _, err := m.stat(subtitlePath); err != nil {
		return &MuxError{Stderr: "subtitle file not readable", Err: err}
	}

	args := buildMuxArgs(videoPath, subtitlePath, outputPath)
	m.log.WithFields(logrus.Fields{
		"video":    videoPath,
		"subtitle": subtitlePath,
		"output":   outputPath,
	}).Info("Burning subtitles into video")

	result, err := m.runner.Run(ctx, m.ffmpegPath, args...)
	if err != nil {
		return &MuxError{ExitCode: result.ExitCode, Stderr: result.Stderr, Err: err}
	}
	if _, err := m.stat(outputPath); err != nil {
		return &MuxError{Stderr: "ffmpeg exited cleanly but produced no output file", Err: err}
	}
	return nil
}

// ffprobeOutput carries the format fields ffprobe reports; only duration is
// used.
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDuration uses ffprobe to read the duration of a media file.
func (m *Muxer) ProbeDuration(ctx context.Context, mediaPath string) (time.Duration, error) {
	result, err := m.runner.Run(ctx, m.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		mediaPath,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, strings.TrimSpace(result.Stderr))
	}

	var probed ffprobeOutput
	if err := json.Unmarshal([]byte(result.Stdout), &probed); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	if probed.Format.Duration == "" {
		return 0, errors.New("ffprobe reported no duration")
	}

	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", probed.Format.Duration, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
