package models

// PolarityRecord is the four-number output of the polarity scorer for one comment.
// Positive, Neutral and Negative are in [0,1]; Compound is in [-1,1].
type PolarityRecord struct {
	Positive float64 `json:"pos" yaml:"pos"`
	Neutral  float64 `json:"neu" yaml:"neu"`
	Negative float64 `json:"neg" yaml:"neg"`
	Compound float64 `json:"compound" yaml:"compound"`
}

// AggregateProfile holds field-wise sums across every PolarityRecord of one request.
// The sums are not normalized by CommentCount.
type AggregateProfile struct {
	PositiveSum  float64 `json:"positive_sum" yaml:"positive_sum"`
	NeutralSum   float64 `json:"neutral_sum" yaml:"neutral_sum"`
	NegativeSum  float64 `json:"negative_sum" yaml:"negative_sum"`
	CompoundSum  float64 `json:"compound_sum" yaml:"compound_sum"`
	CommentCount int     `json:"comment_count" yaml:"comment_count"`
}

// Insufficient reports whether the profile was built from zero comments.
func (p AggregateProfile) Insufficient() bool {
	return p.CommentCount == 0
}
