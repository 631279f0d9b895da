package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/commentsense/internal/models"
)

// ErrScoringUnavailable is returned when the polarity scorer cannot produce a
// record. It aborts the whole analysis.
var ErrScoringUnavailable = errors.New("sentiment scoring unavailable")

type Scorer interface {
	Score(ctx context.Context, sanitized string) (models.PolarityRecord, error)
}

// VaderScorer adapts the govader lexicon analyzer.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(ctx context.Context, sanitized string) (models.PolarityRecord, error) {
	if v == nil || v.analyzer == nil {
		return models.PolarityRecord{}, fmt.Errorf("[VaderScorer] analyzer not initialized: %w", ErrScoringUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return models.PolarityRecord{}, fmt.Errorf("[VaderScorer] %v: %w", err, ErrScoringUnavailable)
	}

	s := v.analyzer.PolarityScores(sanitized)
	return models.PolarityRecord{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
		Compound: s.Compound,
	}, nil
}

// validateRecord rejects records outside the scorer's documented ranges.
func validateRecord(r models.PolarityRecord) error {
	for _, v := range []float64{r.Positive, r.Neutral, r.Negative} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("polarity field %v out of [0,1]", v)
		}
	}
	if math.IsNaN(r.Compound) || r.Compound < -1 || r.Compound > 1 {
		return fmt.Errorf("compound %v out of [-1,1]", r.Compound)
	}
	return nil
}
