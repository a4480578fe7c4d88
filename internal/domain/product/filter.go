package product

import (
	"fmt"
	"strings"

	"github.com/xenking/shop-assistant/internal/domain/entity"
)

// FilterKind tags the outcome of a catalog filter.
type FilterKind int

const (
	// Matches carries a (possibly empty) product list.
	Matches FilterKind = iota
	// Unavailable means a known product name was mentioned but the catalog
	// has nothing under it.
	Unavailable
	// NeedsClarification means a rating filter was requested without naming
	// a product or category.
	NeedsClarification
)

func (k FilterKind) String() string {
	switch k {
	case Matches:
		return "matches"
	case Unavailable:
		return "unavailable"
	case NeedsClarification:
		return "needs_clarification"
	default:
		return fmt.Sprintf("FilterKind(%d)", int(k))
	}
}

const msgSpecifyProduct = "Please specify a product or category for highly rated recommendations."

// FilterResult is the outcome of Filter.Apply. Products is set only for
// Matches; Message only for the other kinds.
type FilterResult struct {
	Kind     FilterKind
	Products []Product
	Message  string
}

func matches(products []Product) FilterResult {
	return FilterResult{Kind: Matches, Products: products}
}

func unavailable(token string) FilterResult {
	return FilterResult{
		Kind:    Unavailable,
		Message: fmt.Sprintf("Sorry, the %s is currently unavailable at the moment.", token),
	}
}

// Filter selects catalog products named in a message.
type Filter struct {
	catalog    Catalog
	vocabulary entity.List
}

// NewFilter creates a Filter over catalog using the default vocabulary.
func NewFilter(catalog Catalog) *Filter {
	return &Filter{catalog: catalog, vocabulary: entity.Vocabulary}
}

// Apply filters the catalog by the first vocabulary token found in message.
// A token with no catalog products yields Unavailable. When the message asks
// for "highly rated" or "best rated" products, the name filter is narrowed
// to products rated at least MinHighRating.
func (f *Filter) Apply(message string) FilterResult {
	message = strings.ToLower(message)

	token, ok := f.vocabulary.Match(message)
	var named []Product
	if ok {
		named = f.byName(token)
		if len(named) == 0 {
			return unavailable(token)
		}
	}

	if !wantsHighlyRated(message) {
		return matches(named)
	}
	if !ok {
		return FilterResult{Kind: NeedsClarification, Message: msgSpecifyProduct}
	}

	rated := make([]Product, 0, len(named))
	for _, p := range named {
		if p.Rating >= MinHighRating {
			rated = append(rated, p)
		}
	}
	return matches(rated)
}

func (f *Filter) byName(token string) []Product {
	var out []Product
	for _, p := range f.catalog.Products() {
		if strings.Contains(strings.ToLower(p.Name), token) {
			out = append(out, p)
		}
	}
	return out
}

func wantsHighlyRated(message string) bool {
	return strings.Contains(message, "highly rated") || strings.Contains(message, "best rated")
}
