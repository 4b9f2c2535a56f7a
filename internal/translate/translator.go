package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"subgen/models"
)

// Service is the single-call capability the segment translator depends on.
// *Client satisfies it; tests substitute fakes.
type Service interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// SegmentError reports the first segment whose translation failed. Index is
// the segment's 1-based transcript position.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("translate segment %d: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error {
	return e.Err
}

// SegmentTranslator translates transcript segments one at a time, in order.
type SegmentTranslator struct {
	svc Service
	log *logrus.Logger
}

// NewSegmentTranslator builds a translator over the given service.
func NewSegmentTranslator(svc Service, log *logrus.Logger) *SegmentTranslator {
	return &SegmentTranslator{svc: svc, log: log}
}

// TranslateAll translates every segment into the target language, calling
// the service once per segment in transcript order. Timing and ordering are
// never altered. The first failure aborts the whole operation with a
// *SegmentError; no partially translated output is returned. Source equal to
// target still goes through the service: the transcription engine may
// already have pivoted the text to another language.
func (t *SegmentTranslator) TranslateAll(ctx context.Context, segments []models.Segment, sourceLang, targetLang string) ([]models.Segment, error) {
	out := make([]models.Segment, len(segments))
	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, &SegmentError{Index: seg.Index, Err: err}
		}
		if strings.TrimSpace(seg.SourceText) == "" {
			return nil, &SegmentError{Index: seg.Index, Err: fmt.Errorf("empty source text")}
		}

		translated, err := t.svc.Translate(ctx, seg.SourceText, sourceLang, targetLang)
		if err != nil {
			return nil, &SegmentError{Index: seg.Index, Err: err}
		}

		seg.TranslatedText = strings.TrimSpace(translated)
		out[i] = seg

		t.log.WithFields(logrus.Fields{
			"segment": seg.Index,
			"source":  sourceLang,
			"target":  targetLang,
		}).Debug("Translated segment")
	}
	return out, nil
}
