package biz

// DefaultScoreDivisor maps the raw scores of the default corpus and boosts
// roughly onto [0,1]. It is a heuristic, not a calibrated probability.
const DefaultScoreDivisor = 10.0

// Relevance maps unbounded engine scores into [0,1].
type Relevance struct {
	divisor float64
}

// NewRelevance creates a normalizer. A non-positive divisor falls back to
// DefaultScoreDivisor.
func NewRelevance(divisor float64) Relevance {
	if divisor <= 0 {
		divisor = DefaultScoreDivisor
	}
	return Relevance{divisor: divisor}
}

// Normalize returns min(raw/divisor, 1). A missing or negative score is 0.
func (r Relevance) Normalize(raw *float64) float64 {
	if raw == nil || *raw <= 0 {
		return 0
	}
	divisor := r.divisor
	if divisor <= 0 {
		divisor = DefaultScoreDivisor
	}
	return min(*raw/divisor, 1)
}
