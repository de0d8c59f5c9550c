package domain

import (
	"fmt"
	"strings"
)

// Bayesian prior used to blend observed ratings toward a global mean so that
// targets with few reviews do not dominate rankings.
const (
	RatingPriorMean   = 4.0
	RatingPriorWeight = 5
)

// TargetType identifies what kind of entity a review is attached to.
type TargetType string

const (
	TargetJob     TargetType = "job"
	TargetCompany TargetType = "company"
	TargetUser    TargetType = "user"
)

// ParseTargetType validates a raw string and returns the typed value.
// Matching is case-insensitive; the web client sends upper-case values.
func ParseTargetType(s string) (TargetType, error) {
	switch TargetType(strings.ToLower(s)) {
	case TargetJob:
		return TargetJob, nil
	case TargetCompany:
		return TargetCompany, nil
	case TargetUser:
		return TargetUser, nil
	default:
		return "", fmt.Errorf("unknown target type %q", s)
	}
}

// Valid reports whether t is one of the known target types.
func (t TargetType) Valid() bool {
	switch t {
	case TargetJob, TargetCompany, TargetUser:
		return true
	}
	return false
}

// RatingColumnPrefix returns the prefix of the denormalized rating columns
// on the target's table. Users keep their as-worker aggregates in a distinct
// worker_* column set.
func (t TargetType) RatingColumnPrefix() string {
	if t == TargetUser {
		return "worker_"
	}
	return ""
}

// Table returns the database table holding the denormalized rating columns
// for this target type. Every TargetType maps to exactly one table.
func (t TargetType) Table() (string, error) {
	switch t {
	case TargetJob:
		return "jobs", nil
	case TargetCompany:
		return "companies", nil
	case TargetUser:
		return "users", nil
	default:
		return "", fmt.Errorf("unknown target type %q", t)
	}
}

// RatingAggregate holds the denormalized review statistics stored on a target row.
type RatingAggregate struct {
	Count      int     `json:"rating_count"`
	Sum        int     `json:"rating_sum"`
	Average    float64 `json:"rating_avg"`
	BayesScore float64 `json:"bayes_score"`
}

// BayesianScore blends the observed mean rating with the global prior:
//
//	(priorWeight*priorMean + count*mean) / (priorWeight + count)
//
// A target with zero reviews scores exactly the prior mean.
func BayesianScore(count, sum int) float64 {
	if count <= 0 {
		return RatingPriorMean
	}
	return (RatingPriorWeight*RatingPriorMean + float64(sum)) / float64(RatingPriorWeight+count)
}

// NewRatingAggregate computes the full aggregate from a review count and sum.
// A zero count yields Average 0 and BayesScore equal to the prior mean.
func NewRatingAggregate(count, sum int) RatingAggregate {
	agg := RatingAggregate{
		Count:      count,
		Sum:        sum,
		BayesScore: BayesianScore(count, sum),
	}
	if count > 0 {
		agg.Average = float64(sum) / float64(count)
	}
	return agg
}
