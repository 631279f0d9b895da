package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/spacesedan/commentsense/internal/models"
	"golang.org/x/oauth2"
)

const (
	YOUTUBE_API_URL       = "https://www.googleapis.com/youtube/v3"
	YOUTUBE_MAX_PAGE_SIZE = 100
	NO_DESCRIPTION        = "No description available."
)

var (
	ErrNotFound      = errors.New("[YouTubeClient] video or comments not found")
	ErrQuota         = errors.New("[YouTubeClient] quota exceeded")
	ErrMissingAPIKey = errors.New("[YouTubeClient] API key is missing")
)

var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|youtube\.com(?:/embed/|/v/|/watch\?v=|/watch\?.+&v=))([^&]{11})`)

// ExtractVideoID pulls the 11 character video id out of a YouTube URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

type YouTubeClient struct {
	Client  *http.Client
	APIKey  string
	BaseURL string

	initialBackoff time.Duration
}

// NewYouTubeClient builds a Data API client. When accessToken is set requests
// carry it as an OAuth2 bearer token in addition to the API key.
func NewYouTubeClient(apiKey, accessToken string) *YouTubeClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if accessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	}

	return &YouTubeClient{
		Client:         httpClient,
		APIKey:         apiKey,
		BaseURL:        YOUTUBE_API_URL,
		initialBackoff: INITIAL_BACKOFF,
	}
}

// FetchComments returns up to maxResults top level comment texts in display order.
func (y *YouTubeClient) FetchComments(ctx context.Context, videoID string, maxResults int) ([]string, error) {
	if y.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if maxResults <= 0 {
		maxResults = YOUTUBE_MAX_PAGE_SIZE
	}

	var comments []string
	pageToken := ""
	for len(comments) < maxResults {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("videoId", videoID)
		params.Set("textFormat", "plainText")
		params.Set("maxResults", strconv.Itoa(min(maxResults-len(comments), YOUTUBE_MAX_PAGE_SIZE)))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var page models.YouTubeCommentThreadsResponse
		if err := y.get(ctx, "/commentThreads", params, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			comments = append(comments, item.Snippet.TopLevelComment.Snippet.TextDisplay)
		}

		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(comments) > maxResults {
		comments = comments[:maxResults]
	}

	slog.Info("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return comments, nil
}

func (y *YouTubeClient) FetchDescription(ctx context.Context, videoID string) (string, error) {
	if y.APIKey == "" {
		return "", ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var resp models.YouTubeVideosResponse
	if err := y.get(ctx, "/videos", params, &resp); err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", ErrNotFound
	}
	return resp.Items[0].Snippet.Description, nil
}

// get issues a GET and decodes the JSON body into out, retrying 429 and 5xx
// with a doubling backoff.
func (y *YouTubeClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("key", y.APIKey)
	reqURL := y.BaseURL + path + "?" + params.Encode()

	backoff := y.initialBackoff
	var lastErr error
	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("[YouTubeClient] failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := y.Client.Do(req)
		if err != nil {
			return fmt.Errorf("[YouTubeClient] request failed: %w", err)
		}

		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			return fmt.Errorf("[YouTubeClient] failed to read response: %w", err)
		}

		switch {
		case res.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("[YouTubeClient] failed to decode response: %w", err)
			}
			return nil
		case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
			lastErr = classifyYouTubeError(res.StatusCode, body)
			slog.Warn("[YouTubeClient] Transient error, retrying...",
				slog.Int("status", res.StatusCode),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))
		default:
			return classifyYouTubeError(res.StatusCode, body)
		}

		if attempt == MAX_RETRIES {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	slog.Error("[YouTubeClient] Failed after max retries", slog.String("path", path))
	return lastErr
}

func classifyYouTubeError(status int, body []byte) error {
	var apiErr models.YouTubeErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	reason := ""
	if len(apiErr.Error.Errors) > 0 {
		reason = apiErr.Error.Errors[0].Reason
	}

	switch {
	case status == http.StatusNotFound || reason == "commentsDisabled" || reason == "videoNotFound":
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Error.Message)
	case status == http.StatusTooManyRequests || reason == "quotaExceeded" || reason == "rateLimitExceeded":
		return fmt.Errorf("%w: %s", ErrQuota, apiErr.Error.Message)
	default:
		return fmt.Errorf("[YouTubeClient] unexpected status %d: %s", status, apiErr.Error.Message)
	}
}

// HealthCheck confirms the API key is accepted by listing a single known video.
func (y *YouTubeClient) HealthCheck(ctx context.Context) error {
	if y.APIKey == "" {
		return ErrMissingAPIKey
	}
	params := url.Values{}
	params.Set("part", "id")
	params.Set("id", "dQw4w9WgXcQ")

	var resp models.YouTubeVideosResponse
	return y.get(ctx, "/videos", params, &resp)
}
