package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYouTubeClient(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewYouTubeClient("test-key", "")
	c.BaseURL = srv.URL
	c.initialBackoff = time.Millisecond
	return c
}

func commentPage(next string, texts ...string) string {
	items := ""
	for i, text := range texts {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"id":"c%d","snippet":{"topLevelComment":{"snippet":{"textDisplay":%q}}}}`, i, text)
	}
	return fmt.Sprintf(`{"nextPageToken":%q,"items":[%s]}`, next, items)
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://vimeo.com/123456", "", false},
		{"https://youtu.be/short", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ExtractVideoID(tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestFetchComments_SinglePage(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/commentThreads", r.URL.Path)
		assert.Equal(t, "vid12345678", r.URL.Query().Get("videoId"))
		assert.Equal(t, "plainText", r.URL.Query().Get("textFormat"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, commentPage("", "first", "second"))
	})

	comments, err := c.FetchComments(context.Background(), "vid12345678", 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, comments)
}

func TestFetchComments_PaginatesUntilMax(t *testing.T) {
	var calls atomic.Int32
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("pageToken") {
		case "":
			calls.Add(1)
			fmt.Fprint(w, commentPage("p2", "a", "b"))
		case "p2":
			calls.Add(1)
			fmt.Fprint(w, commentPage("p3", "c", "d"))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("pageToken"))
		}
	})

	comments, err := c.FetchComments(context.Background(), "vid", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, comments)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchComments_CommentsDisabled(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"disabled","errors":[{"reason":"commentsDisabled"}]}}`)
	})

	_, err := c.FetchComments(context.Background(), "vid", 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchComments_QuotaExceeded(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quota","errors":[{"reason":"quotaExceeded"}]}}`)
	})

	_, err := c.FetchComments(context.Background(), "vid", 10)
	assert.ErrorIs(t, err, ErrQuota)
}

func TestFetchComments_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, commentPage("", "finally"))
	})

	comments, err := c.FetchComments(context.Background(), "vid", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"finally"}, comments)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchComments_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.FetchComments(context.Background(), "vid", 10)
	assert.ErrorIs(t, err, ErrQuota)
	assert.Equal(t, int32(MAX_RETRIES), calls.Load())
}

func TestFetchComments_MissingAPIKey(t *testing.T) {
	c := NewYouTubeClient("", "")
	_, err := c.FetchComments(context.Background(), "vid", 10)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestFetchDescription(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "vid", r.URL.Query().Get("id"))
		fmt.Fprint(w, `{"items":[{"id":"vid","snippet":{"title":"T","description":"A video about cats"}}]}`)
	})

	desc, err := c.FetchDescription(context.Background(), "vid")
	require.NoError(t, err)
	assert.Equal(t, "A video about cats", desc)
}

func TestFetchDescription_NoItems(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})

	_, err := c.FetchDescription(context.Background(), "vid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewYouTubeClient_BearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		fmt.Fprint(w, commentPage("", "x"))
	}))
	defer srv.Close()

	c := NewYouTubeClient("k", "tok")
	c.BaseURL = srv.URL

	comments, err := c.FetchComments(context.Background(), "vid", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, comments)
}

func TestYouTubeHealthCheck(t *testing.T) {
	c := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id", r.URL.Query().Get("part"))
		fmt.Fprint(w, `{"items":[{"id":"dQw4w9WgXcQ"}]}`)
	})
	assert.NoError(t, c.HealthCheck(context.Background()))

	assert.ErrorIs(t, NewYouTubeClient("", "").HealthCheck(context.Background()), ErrMissingAPIKey)
}
