package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_COMMENTS_KEY_PREFIX = "youtube:comments:"

type ValkeyOptions struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// ValkeyClient caches fetched comment lists per video id.
type ValkeyClient struct {
	Client valkey.Client
	ttl    time.Duration
}

func NewValkeyClient(ctx context.Context, o ValkeyOptions) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			o.Address,
		},
		Password:         o.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if o.UseTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", o.Address))
	ttl := o.TTL
	if ttl <= 0 {
		ttl = VALKEY_DEFAULT_TTL
	}
	return &ValkeyClient{Client: client, ttl: ttl}, nil
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

// GetComments returns the comments cached for videoID at maxResults. A miss is (nil, false, nil).
func (vc *ValkeyClient) GetComments(ctx context.Context, videoID string, maxResults int) ([]string, bool, error) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(commentsKey(videoID, maxResults)).Build(), VALKEY_RETRIES)
	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	raw, err := res.ToString()
	if err != nil {
		return nil, false, err
	}

	var comments []string
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		return nil, false, fmt.Errorf("[ValkeyClient] corrupt cache entry: %w", err)
	}
	return comments, true, nil
}

func (vc *ValkeyClient) SetComments(ctx context.Context, videoID string, maxResults int, comments []string) error {
	payload, err := json.Marshal(comments)
	if err != nil {
		return err
	}

	cmd := vc.Client.B().Set().Key(commentsKey(videoID, maxResults)).Value(string(payload)).PxMilliseconds(expiryMillis(vc.ttl)).Build()
	if err := vc.DoWithRetry(ctx, cmd, VALKEY_RETRIES).Error(); err != nil {
		return err
	}

	slog.Debug("[ValkeyClient] Cached comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return nil
}

// DoWithRetry runs completed, retrying connection errors. The command is
// pinned so it survives being sent more than once.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	completed = completed.Pin()

	var result valkey.ValkeyResult
	_ = retryConnectionErrors(ctx, retries, VALKEY_RETRY_BACKOFF, func() error {
		result = vc.Client.Do(ctx, completed)
		return result.Error()
	})
	return result
}

// retryConnectionErrors calls do up to retries times while it fails with a
// connection error. Waiting between attempts stops as soon as ctx is done.
func retryConnectionErrors(ctx context.Context, retries int, backoff time.Duration, do func() error) error {
	var err error
	for attempt := 1; attempt <= retries; attempt++ {
		err = do()
		if err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			return err
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()))

		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(backoff):
		}
	}
	return err
}

// expiryMillis never returns less than one millisecond; EX/PX 0 is rejected by the server.
func expiryMillis(ttl time.Duration) int64 {
	return max(ttl.Milliseconds(), 1)
}

func commentsKey(videoID string, maxResults int) string {
	return VALKEY_COMMENTS_KEY_PREFIX + videoID + ":" + strconv.Itoa(maxResults)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	return vc.Client.Do(ctx, vc.Client.B().Ping().Build()).Error()
}
