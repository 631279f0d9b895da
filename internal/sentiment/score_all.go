package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentsense/internal/models"
	"golang.org/x/sync/errgroup"
)

const DEFAULT_SCORING_WORKERS = 4

// ScoreAll scores every sanitized comment, running up to workers calls at once.
// records[i] always belongs to sanitized[i]. On the first failure the remaining
// calls are cancelled and no records are returned.
func ScoreAll(ctx context.Context, scorer Scorer, sanitized []string, workers int) ([]models.PolarityRecord, error) {
	if scorer == nil {
		return nil, fmt.Errorf("[ScoreAll] no scorer: %w", ErrScoringUnavailable)
	}
	if workers < 1 {
		workers = DEFAULT_SCORING_WORKERS
	}

	start := time.Now()
	records := make([]models.PolarityRecord, len(sanitized))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range sanitized {
		g.Go(func() error {
			rec, err := scorer.Score(gctx, text)
			if err != nil {
				return fmt.Errorf("comment %d: %w", i, err)
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("[ScoreAll] Scoring failed",
			slog.Int("comments", len(sanitized)),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Debug("[ScoreAll] Scored comments",
		slog.Int("comments", len(sanitized)),
		slog.Int("workers", workers),
		slog.Duration("elapsed", time.Since(start)))
	return records, nil
}
