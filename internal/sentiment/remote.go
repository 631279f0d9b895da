package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/commentsense/internal/models"
)

// PolarityService is an external service returning polarity records for text.
type PolarityService interface {
	PolarityScores(ctx context.Context, text string) (models.PolarityRecord, error)
}

// RemoteScorer adapts a PolarityService to the Scorer interface.
type RemoteScorer struct {
	Service PolarityService
}

func (r RemoteScorer) Score(ctx context.Context, sanitized string) (models.PolarityRecord, error) {
	if r.Service == nil {
		return models.PolarityRecord{}, fmt.Errorf("[RemoteScorer] no polarity service configured: %w", ErrScoringUnavailable)
	}

	rec, err := r.Service.PolarityScores(ctx, sanitized)
	if err != nil {
		return models.PolarityRecord{}, fmt.Errorf("[RemoteScorer] %v: %w", err, ErrScoringUnavailable)
	}
	if err := validateRecord(rec); err != nil {
		return models.PolarityRecord{}, fmt.Errorf("[RemoteScorer] %v: %w", err, ErrScoringUnavailable)
	}
	return rec, nil
}
