package chat

import (
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/reply"
)

// Result is the outcome of classifying one message.
type Result struct {
	Intent     Intent
	Text       string
	Confidence float64
	// Products is nil unless at least one product matched.
	Products []product.Product
}

// assemble wraps a handler reply into a Result. Empty product lists are
// dropped so callers only see nil or a non-empty slice.
func assemble(intent Intent, r reply.Reply, products []product.Product) Result {
	if len(products) == 0 {
		products = nil
	}
	return Result{
		Intent:     intent,
		Text:       r.Text,
		Confidence: r.Confidence,
		Products:   products,
	}
}
