package sentiment

import "github.com/spacesedan/commentsense/internal/models"

// Aggregate sums each polarity field across records. The result is a sum, not
// a mean, so it grows with the number of comments.
func Aggregate(records []models.PolarityRecord) models.AggregateProfile {
	var p models.AggregateProfile
	for _, r := range records {
		p.PositiveSum += r.Positive
		p.NeutralSum += r.Neutral
		p.NegativeSum += r.Negative
		p.CompoundSum += r.Compound
	}
	p.CommentCount = len(records)
	return p
}
