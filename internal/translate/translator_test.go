package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"subgen/models"
)

// fakeService records calls and returns scripted translations.
type fakeService struct {
	calls    []string
	reply    func(text string) (string, error)
}

func (f *fakeService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	f.calls = append(f.calls, text)
	if f.reply == nil {
		return "[" + targetLang + "] " + text, nil
	}
	return f.reply(text)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleSegments() []models.Segment {
	return []models.Segment{
		{Index: 1, StartTime: 0.0, EndTime: 1.2, SourceText: "Hola"},
		{Index: 2, StartTime: 1.2, EndTime: 3.0, SourceText: "Mundo"},
		{Index: 3, StartTime: 3.0, EndTime: 4.1, SourceText: "Adios"},
	}
}

func TestTranslateAllPreservesOrderAndTiming(t *testing.T) {
	svc := &fakeService{}
	tr := NewSegmentTranslator(svc, quietLogger())

	out, err := tr.TranslateAll(context.Background(), sampleSegments(), "ES", "EN")
	if err != nil {
		t.Fatalf("TranslateAll() error = %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("output count = %d, want 3", len(out))
	}
	for i, seg := range out {
		orig := sampleSegments()[i]
		if seg.Index != orig.Index || seg.StartTime != orig.StartTime || seg.EndTime != orig.EndTime {
			t.Fatalf("segment %d timing/index changed: %+v", i, seg)
		}
		if seg.SourceText != orig.SourceText {
			t.Fatalf("segment %d source text changed: %+v", i, seg)
		}
		if seg.TranslatedText != "[EN] "+orig.SourceText {
			t.Fatalf("segment %d translation = %q", i, seg.TranslatedText)
		}
	}
	if strings.Join(svc.calls, ",") != "Hola,Mundo,Adios" {
		t.Fatalf("service called out of order: %v", svc.calls)
	}
}

func TestTranslateAllFailFast(t *testing.T) {
	svc := &fakeService{
		reply: func(text string) (string, error) {
			if text == "Mundo" {
				return "", errors.New("boom")
			}
			return text, nil
		},
	}
	tr := NewSegmentTranslator(svc, quietLogger())

	out, err := tr.TranslateAll(context.Background(), sampleSegments(), "ES", "EN")
	if err == nil {
		t.Fatal("expected error")
	}
	if out != nil {
		t.Fatalf("expected no partial output, got %v", out)
	}

	var segErr *SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("error type = %T, want *SegmentError", err)
	}
	if segErr.Index != 2 {
		t.Fatalf("failing segment index = %d, want 2", segErr.Index)
	}
	// The third segment must never have been attempted.
	if len(svc.calls) != 2 {
		t.Fatalf("service calls = %d, want 2", len(svc.calls))
	}
}

func TestTranslateAllRateLimitSurfacesCause(t *testing.T) {
	svc := &fakeService{
		reply: func(string) (string, error) { return "", ErrRateLimited },
	}
	tr := NewSegmentTranslator(svc, quietLogger())

	_, err := tr.TranslateAll(context.Background(), sampleSegments(), "ES", "EN")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected wrapped ErrRateLimited, got %v", err)
	}
	var segErr *SegmentError
	if !errors.As(err, &segErr) || segErr.Index != 1 {
		t.Fatalf("expected SegmentError for segment 1, got %v", err)
	}
}

func TestTranslateAllEmptySourceTextFails(t *testing.T) {
	svc := &fakeService{}
	tr := NewSegmentTranslator(svc, quietLogger())

	segments := []models.Segment{
		{Index: 1, StartTime: 0, EndTime: 1, SourceText: "Hola"},
		{Index: 2, StartTime: 1, EndTime: 2, SourceText: "   "},
	}
	_, err := tr.TranslateAll(context.Background(), segments, "ES", "EN")

	var segErr *SegmentError
	if !errors.As(err, &segErr) {
		t.Fatalf("error type = %T, want *SegmentError", err)
	}
	if segErr.Index != 2 {
		t.Fatalf("failing segment index = %d, want 2", segErr.Index)
	}
	if len(svc.calls) != 1 {
		t.Fatalf("service calls = %d, want 1", len(svc.calls))
	}
}

func TestTranslateAllTrimsWhitespace(t *testing.T) {
	svc := &fakeService{
		reply: func(text string) (string, error) {
			return "  " + text + "\n", nil
		},
	}
	tr := NewSegmentTranslator(svc, quietLogger())

	out, err := tr.TranslateAll(context.Background(), sampleSegments()[:1], "ES", "EN")
	if err != nil {
		t.Fatalf("TranslateAll() error = %v", err)
	}
	if out[0].TranslatedText != "Hola" {
		t.Fatalf("translated text = %q, want trimmed %q", out[0].TranslatedText, "Hola")
	}
}

// TestTranslateAllSameLanguageStillCallsService pins the pass-through
// decision: the engine may have pivoted the transcript to another language,
// so equal source and target still forwards every segment.
func TestTranslateAllSameLanguageStillCallsService(t *testing.T) {
	svc := &fakeService{}
	tr := NewSegmentTranslator(svc, quietLogger())

	out, err := tr.TranslateAll(context.Background(), sampleSegments(), "EN", "EN")
	if err != nil {
		t.Fatalf("TranslateAll() error = %v", err)
	}
	if len(svc.calls) != 3 {
		t.Fatalf("service calls = %d, want 3", len(svc.calls))
	}
	if len(out) != 3 {
		t.Fatalf("output count = %d, want 3", len(out))
	}
}

func TestTranslateAllCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := &fakeService{}
	tr := NewSegmentTranslator(svc, quietLogger())

	_, err := tr.TranslateAll(ctx, sampleSegments(), "ES", "EN")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("service should not be called after cancel, calls = %d", len(svc.calls))
	}
}

func TestSegmentErrorFormatting(t *testing.T) {
	err := &SegmentError{Index: 4, Err: fmt.Errorf("unsupported language pair")}
	if err.Error() != "translate segment 4: unsupported language pair" {
		t.Fatalf("Error() = %q", err.Error())
	}
}
