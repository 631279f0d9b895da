// Package recommendation turns an aggregate sentiment profile and a viewer's
// age into an audience recommendation.
package recommendation

import "github.com/spacesedan/commentsense/internal/models"

type Recommendation string

const (
	InsufficientData Recommendation = "Not enough comments to provide a recommendation."
	MixedReviews     Recommendation = "Mixed reviews. Suitable for mature audiences."

	HighlyRecommendedChildren Recommendation = "Highly recommended for children"
	RecommendedChildrenTeens  Recommendation = "Recommended for children (12-18)"
	RecommendedAdultsOnly     Recommendation = "Recommended for adults"
	NotRecommendedChildren    Recommendation = "Not recommended for children"

	HighlyRecommendedTeens Recommendation = "Highly recommended for teens"
	RecommendedMostTeens   Recommendation = "Recommended for most teens"
	NotRecommendedTeens    Recommendation = "Not recommended for teens"

	HighlyRecommendedAdults Recommendation = "Highly recommended for adults"
	RecommendedMostAdults   Recommendation = "Recommended for most adults"
	NotRecommendedAdults    Recommendation = "Not recommended for adults"

	HighlyRecommendedAged Recommendation = "Highly recommended for aged people"
	RecommendedAged       Recommendation = "Recommended for aged people"
	NotRecommendedAged    Recommendation = "Not recommended for aged people"
)

type AgeBand string

const (
	BandChild  AgeBand = "child"
	BandTeen   AgeBand = "teen"
	BandAdult  AgeBand = "adult"
	BandSenior AgeBand = "senior"
)

// Band maps an age to its recommendation band. Ages below zero fall into the child band.
func Band(age int) AgeBand {
	switch {
	case age < 13:
		return BandChild
	case age <= 18:
		return BandTeen
	case age <= 64:
		return BandAdult
	default:
		return BandSenior
	}
}

type rung struct {
	ratio     func(positive, negative float64) bool
	recommend Recommendation
}

func positiveAbove(t float64) func(float64, float64) bool {
	return func(p, _ float64) bool { return p > t }
}

func negativeAbove(t float64) func(float64, float64) bool {
	return func(_, n float64) bool { return n > t }
}

// ladders are evaluated top to bottom; the first rung that matches wins and
// MixedReviews is the fallthrough for every band.
var ladders = map[AgeBand][]rung{
	BandChild: {
		{positiveAbove(0.8), HighlyRecommendedChildren},
		{positiveAbove(0.5), RecommendedChildrenTeens},
		{positiveAbove(0.3), RecommendedAdultsOnly},
		{negativeAbove(0.5), NotRecommendedChildren},
	},
	BandTeen: {
		{positiveAbove(0.7), HighlyRecommendedTeens},
		{positiveAbove(0.5), RecommendedMostTeens},
		{negativeAbove(0.5), NotRecommendedTeens},
	},
	BandAdult: {
		{positiveAbove(0.7), HighlyRecommendedAdults},
		{positiveAbove(0.5), RecommendedMostAdults},
		{negativeAbove(0.5), NotRecommendedAdults},
	},
	BandSenior: {
		{positiveAbove(0.8), HighlyRecommendedAged},
		{positiveAbove(0.5), RecommendedAged},
		{negativeAbove(0.5), NotRecommendedAged},
	},
}

// Ratios derives the mean per-comment positive and negative scores from the
// profile's sums. Both are zero for an empty profile.
func Ratios(profile models.AggregateProfile) (positive, negative float64) {
	if profile.Insufficient() {
		return 0, 0
	}
	n := float64(profile.CommentCount)
	return profile.PositiveSum / n, profile.NegativeSum / n
}

func Recommend(profile models.AggregateProfile, age int) Recommendation {
	if profile.Insufficient() {
		return InsufficientData
	}

	positive, negative := Ratios(profile)
	for _, r := range ladders[Band(age)] {
		if r.ratio(positive, negative) {
			return r.recommend
		}
	}
	return MixedReviews
}
