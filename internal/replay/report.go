package replay

import (
	"slices"

	"github.com/xenking/shop-assistant/internal/domain/chat"
)

// IntentStats aggregates the classifications of one intent.
type IntentStats struct {
	Count         int
	ConfidenceSum float64
	WithProducts  int
}

// MeanConfidence is the average confidence, or zero for an empty bucket.
func (s IntentStats) MeanConfidence() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.ConfidenceSum / float64(s.Count)
}

// Report summarizes a replay.
type Report struct {
	// Lines counts non-blank transcript lines.
	Lines           int
	Duplicates      int
	Malformed       int
	Unauthenticated int
	Intents         map[chat.Intent]IntentStats
}

func newReport() *Report {
	return &Report{Intents: make(map[chat.Intent]IntentStats)}
}

func (r *Report) add(res chat.Result) {
	s := r.Intents[res.Intent]
	s.Count++
	s.ConfidenceSum += res.Confidence
	if len(res.Products) > 0 {
		s.WithProducts++
	}
	r.Intents[res.Intent] = s
}

// Classified is the number of lines that produced an answer.
func (r *Report) Classified() int {
	var n int
	for _, s := range r.Intents {
		n += s.Count
	}
	return n
}

// SortedIntents returns the intents seen, most frequent first. Ties are
// broken by name.
func (r *Report) SortedIntents() []chat.Intent {
	out := make([]chat.Intent, 0, len(r.Intents))
	for intent := range r.Intents {
		out = append(out, intent)
	}
	slices.SortFunc(out, func(a, b chat.Intent) int {
		if d := r.Intents[b].Count - r.Intents[a].Count; d != 0 {
			return d
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return out
}
