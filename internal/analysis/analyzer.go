// Package analysis runs one comment sentiment analysis for one viewer:
// fetch, sanitize, score, aggregate, recommend.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentsense/internal/auth"
	"github.com/spacesedan/commentsense/internal/clients"
	"github.com/spacesedan/commentsense/internal/models"
	"github.com/spacesedan/commentsense/internal/recommendation"
	"github.com/spacesedan/commentsense/internal/sentiment"
)

const TOP_WORDS = 50

var ErrInvalidVideoURL = errors.New("invalid YouTube video URL")

type CommentSource interface {
	FetchComments(ctx context.Context, videoID string, maxResults int) ([]string, error)
}

type DescriptionSource interface {
	FetchDescription(ctx context.Context, videoID string) (string, error)
}

// CommentCache is optional; a nil cache disables caching. Entries are keyed by
// video id and the comment limit they were fetched with.
type CommentCache interface {
	GetComments(ctx context.Context, videoID string, maxResults int) ([]string, bool, error)
	SetComments(ctx context.Context, videoID string, maxResults int, comments []string) error
}

type Analyzer struct {
	Comments     CommentSource
	Descriptions DescriptionSource
	Scorer       sentiment.Scorer
	Cache        CommentCache
	MaxComments  int
	Workers      int
}

type Request struct {
	VideoURL string
	// VideoID skips URL parsing when set.
	VideoID string
}

type Result struct {
	VideoID        string                        `json:"video_id" yaml:"video_id"`
	Description    string                        `json:"description" yaml:"description"`
	Viewer         models.Viewer                 `json:"viewer" yaml:"viewer"`
	Band           recommendation.AgeBand        `json:"age_band" yaml:"age_band"`
	Comments       []string                      `json:"comments" yaml:"comments"`
	Sanitized      []string                      `json:"-" yaml:"-"`
	Records        []models.PolarityRecord       `json:"records" yaml:"records"`
	Profile        models.AggregateProfile       `json:"profile" yaml:"profile"`
	PositiveRatio  float64                       `json:"positive_ratio" yaml:"positive_ratio"`
	NegativeRatio  float64                       `json:"negative_ratio" yaml:"negative_ratio"`
	Recommendation recommendation.Recommendation `json:"recommendation" yaml:"recommendation"`
	AnalyzedAt     time.Time                     `json:"analyzed_at" yaml:"analyzed_at"`
}

// CommentsFound is false when retrieval produced no comments.
func (r *Result) CommentsFound() bool {
	return len(r.Comments) > 0
}

// Filter returns the original comments dominated by bucket.
func (r *Result) Filter(bucket sentiment.Bucket) ([]string, error) {
	return sentiment.Partition(r.Comments, r.Records, bucket)
}

type Distribution struct {
	Positive float64 `json:"positive" yaml:"positive"`
	Neutral  float64 `json:"neutral" yaml:"neutral"`
	Negative float64 `json:"negative" yaml:"negative"`
}

// Distribution is the raw positive/neutral/negative volume across all comments.
func (r *Result) Distribution() Distribution {
	return Distribution{
		Positive: r.Profile.PositiveSum,
		Neutral:  r.Profile.NeutralSum,
		Negative: r.Profile.NegativeSum,
	}
}

func (r *Result) WordFrequencies(n int) []sentiment.WordCount {
	return sentiment.TopWords(r.Sanitized, n)
}

func ResolveVideoID(req Request) (string, error) {
	if req.VideoID != "" {
		return req.VideoID, nil
	}
	id, ok := clients.ExtractVideoID(req.VideoURL)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, req.VideoURL)
	}
	return id, nil
}

// Analyze runs the pipeline for the session's viewer. Retrieval failures are
// reported as a result without comments; scoring failures abort with an error
// wrapping sentiment.ErrScoringUnavailable.
func (a *Analyzer) Analyze(ctx context.Context, session *auth.Session, req Request) (*Result, error) {
	if !session.Active() {
		return nil, auth.ErrSessionClosed
	}

	videoID, err := ResolveVideoID(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	logger := slog.With(
		slog.String("session_id", session.ID),
		slog.String("video_id", videoID))

	comments := a.loadComments(ctx, logger, videoID)
	description := a.loadDescription(ctx, logger, videoID)

	sanitized := sentiment.SanitizeAll(comments)
	records, err := sentiment.ScoreAll(ctx, a.Scorer, sanitized, a.Workers)
	if err != nil {
		return nil, fmt.Errorf("[Analyzer] scoring failed for %s: %w", videoID, err)
	}

	profile := sentiment.Aggregate(records)
	positive, negative := recommendation.Ratios(profile)
	age := session.Viewer.Age

	result := &Result{
		VideoID:        videoID,
		Description:    description,
		Viewer:         session.Viewer,
		Band:           recommendation.Band(age),
		Comments:       comments,
		Sanitized:      sanitized,
		Records:        records,
		Profile:        profile,
		PositiveRatio:  positive,
		NegativeRatio:  negative,
		Recommendation: recommendation.Recommend(profile, age),
		AnalyzedAt:     time.Now().UTC(),
	}

	logger.Info("[Analyzer] Analysis complete",
		slog.Int("comments", profile.CommentCount),
		slog.String("recommendation", string(result.Recommendation)),
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (a *Analyzer) loadComments(ctx context.Context, logger *slog.Logger, videoID string) []string {
	if a.Cache != nil {
		cached, ok, err := a.Cache.GetComments(ctx, videoID, a.MaxComments)
		switch {
		case err != nil:
			logger.Warn("[Analyzer] Comment cache read failed", slog.String("error", err.Error()))
		case ok:
			logger.Debug("[Analyzer] Comment cache hit", slog.Int("count", len(cached)))
			return cached
		}
	}

	if a.Comments == nil {
		logger.Warn("[Analyzer] No comment source configured")
		return nil
	}

	comments, err := a.Comments.FetchComments(ctx, videoID, a.MaxComments)
	if err != nil {
		logger.Warn("[Analyzer] Comment retrieval failed, treating as no comments",
			slog.String("error", err.Error()))
		return nil
	}

	if a.Cache != nil && len(comments) > 0 {
		if err := a.Cache.SetComments(ctx, videoID, a.MaxComments, comments); err != nil {
			logger.Warn("[Analyzer] Comment cache write failed", slog.String("error", err.Error()))
		}
	}
	return comments
}

func (a *Analyzer) loadDescription(ctx context.Context, logger *slog.Logger, videoID string) string {
	if a.Descriptions == nil {
		return clients.NO_DESCRIPTION
	}
	desc, err := a.Descriptions.FetchDescription(ctx, videoID)
	if err != nil {
		logger.Warn("[Analyzer] Description retrieval failed", slog.String("error", err.Error()))
		return clients.NO_DESCRIPTION
	}
	return desc
}
