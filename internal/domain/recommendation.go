package domain

// DefaultTopK is the number of recommendations returned when a query
// does not ask for a specific count.
const DefaultTopK = 5

// Query is one recommendation request. Ephemeral, never persisted.
type Query struct {
	Text string
	// TopK caps the result count. Non-positive values fall back to
	// DefaultTopK.
	TopK int
}

// Recommendation is one ranked entry in a recommendation result set.
// Built fresh per query and never mutated afterwards.
type Recommendation struct {
	Speaker SpeakerRecord
	// Score is the relevance score in [0, 1], monotone in the cosine
	// similarity between the query and the speaker document.
	Score       float64
	Explanation string
	// Rank is the 1-based position in the returned sequence.
	Rank int
}
