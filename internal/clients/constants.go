package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "commentsense-client/1.0 (+https://github.com/spacesedan/commentsense)"

	VALKEY_RETRIES       = 3
	VALKEY_RETRY_BACKOFF = 250 * time.Millisecond
	VALKEY_DEFAULT_TTL   = time.Hour
)
