package sentiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/commentsense/internal/models"
)

type Bucket string

const (
	BucketAll      Bucket = "All"
	BucketPositive Bucket = "Positive"
	BucketNeutral  Bucket = "Neutral"
	BucketNegative Bucket = "Negative"
)

// DominantThreshold is the field value a comment must exceed to land in a bucket.
const DominantThreshold = 0.5

var (
	ErrMisaligned    = errors.New("comments and polarity records are not index aligned")
	ErrUnknownBucket = errors.New("unknown sentiment bucket")
)

var Buckets = []Bucket{BucketAll, BucketPositive, BucketNeutral, BucketNegative}

func ParseBucket(s string) (Bucket, error) {
	for _, b := range Buckets {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
}

// Partition returns the comments whose own record is dominated by bucket,
// preserving order. BucketAll returns comments unchanged.
func Partition(comments []string, records []models.PolarityRecord, bucket Bucket) ([]string, error) {
	if len(comments) != len(records) {
		return nil, fmt.Errorf("[Partition] %d comments, %d records: %w", len(comments), len(records), ErrMisaligned)
	}

	var field func(models.PolarityRecord) float64
	switch bucket {
	case BucketAll:
		return comments, nil
	case BucketPositive:
		field = func(r models.PolarityRecord) float64 { return r.Positive }
	case BucketNeutral:
		field = func(r models.PolarityRecord) float64 { return r.Neutral }
	case BucketNegative:
		field = func(r models.PolarityRecord) float64 { return r.Negative }
	default:
		return nil, fmt.Errorf("[Partition] %w: %q", ErrUnknownBucket, bucket)
	}

	filtered := make([]string, 0, len(comments))
	for i, c := range comments {
		if field(records[i]) > DominantThreshold {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}
