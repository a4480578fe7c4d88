package entity

import "strings"

// Vocabulary is the ordered list of product and category names recognized
// in messages. The order, including the singular/plural duplicates, decides
// which token wins when several occur.
var Vocabulary = NewList(
	"Gaming Console", "Fitness Tracker", "coffee maker", "Coffee Makers",
	"Bag", "Bags", "watch", "watches", "shoe", "shoes", "headphone", "headphones", "laptop", "laptops",
	"smartphone", "smartphones", "tablet", "tablets", "smartwatch", "smartwatches",
	"speaker", "speakers", "television", "televisions", "camera", "cameras", "keyboard", "keyboards",
	"mouse", "console", "consoles", "tracker", "trackers", "bag", "bags", "oven", "ovens",
	"refrigerator", "refrigerators", "conditioner", "conditioners", "fan", "fans", "toaster", "toasters",
)

// List is an ordered keyword list matched by substring containment with
// first-match-wins semantics.
type List struct {
	entries []string
}

// NewList builds a List. Entries are lower-cased; order is kept.
func NewList(entries ...string) List {
	lowered := make([]string, len(entries))
	for i, e := range entries {
		lowered[i] = strings.ToLower(e)
	}
	return List{entries: lowered}
}

// Match returns the first entry contained in the lower-cased message.
func (l List) Match(message string) (string, bool) {
	message = strings.ToLower(message)
	for _, e := range l.entries {
		if strings.Contains(message, e) {
			return e, true
		}
	}
	return "", false
}

// Contains reports whether any entry occurs in message.
func (l List) Contains(message string) bool {
	_, ok := l.Match(message)
	return ok
}

// Entries returns a copy of the lower-cased entries in declaration order.
func (l List) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
