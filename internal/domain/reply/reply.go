// Package reply defines the text-plus-confidence answer produced by the
// domain handlers.
package reply

// Confidence values assigned by handler branches. Higher means a more
// specific match; the values are heuristics, not probabilities.
const (
	ConfidenceHigh     = 0.9
	ConfidenceMedium   = 0.8
	ConfidenceLow      = 0.7
	ConfidenceUnsure   = 0.6
	ConfidenceFallback = 0.5
)

// Reply is a handler answer.
type Reply struct {
	Text       string
	Confidence float64
}

// New returns a Reply with the given text and confidence.
func New(text string, confidence float64) Reply {
	return Reply{Text: text, Confidence: confidence}
}
