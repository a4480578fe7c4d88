// Package chat classifies customer messages into intents and produces the
// assistant's answer.
package chat

import (
	"strings"

	"github.com/xenking/shop-assistant/internal/domain/order"
	"github.com/xenking/shop-assistant/internal/domain/payment"
	"github.com/xenking/shop-assistant/internal/domain/policy"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/reply"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

const (
	msgProductsFound   = "Here are some products that match for you"
	msgNoProductsFound = "I couldn't find any products matching your keyword. Try browsing our general collection"

	msgGreeting = `Hello! 👋 I'm your AI shopping assistant. How can I help you today? You can ask me about:
• Product recommendations (e.g., "Show me women's bags" or "Highly rated products")
• Order status
• Return policy`
	msgThanks   = "You're welcome! If you have any more questions, feel free to ask!"
	msgHelp     = "Of course! What do you need assistance with? You can ask me about products, orders, or any other inquiries you may have."
	msgFallback = "I'm not sure I understand. You can ask me to show products, check order status, or learn about our return policy."
)

// Router dispatches a message to the domain handler owning its intent.
// It holds no mutable state and is safe for concurrent use as long as the
// backing stores are not mutated.
type Router struct {
	orders   *order.Handler
	payments *payment.Handler
	products *product.Filter
}

// NewRouter creates a Router over read-only stores.
func NewRouter(orders order.Store, payments payment.Store, catalog product.Catalog) *Router {
	return &Router{
		orders:   order.NewHandler(orders),
		payments: payment.NewHandler(payments),
		products: product.NewFilter(catalog),
	}
}

// Classify answers message on behalf of u. Unrecognized input falls back to
// a generic answer; Classify never fails.
func (r *Router) Classify(message string, u user.User) Result {
	message = strings.ToLower(message)

	intent := Detect(message)
	switch intent {
	case IntentPolicy:
		return assemble(intent, policy.ReturnPolicy(), nil)
	case IntentOrder:
		return assemble(intent, r.orders.Handle(message, u), nil)
	case IntentPayment:
		return assemble(intent, r.payments.Handle(message, u), nil)
	case IntentProduct:
		return r.recommend(message)
	case IntentGreeting:
		return assemble(intent, reply.New(msgGreeting, reply.ConfidenceHigh), nil)
	case IntentThanks:
		return assemble(intent, reply.New(msgThanks, reply.ConfidenceHigh), nil)
	case IntentHelp:
		return assemble(intent, reply.New(msgHelp, reply.ConfidenceHigh), nil)
	default:
		return assemble(IntentFallback, reply.New(msgFallback, reply.ConfidenceFallback), nil)
	}
}

func (r *Router) recommend(message string) Result {
	res := r.products.Apply(message)
	switch res.Kind {
	case product.Matches:
		if len(res.Products) == 0 {
			return assemble(IntentProduct, reply.New(msgNoProductsFound, reply.ConfidenceLow), nil)
		}
		return assemble(IntentProduct, reply.New(msgProductsFound, reply.ConfidenceHigh), res.Products)
	case product.Unavailable, product.NeedsClarification:
		return assemble(IntentProduct, reply.New(res.Message, reply.ConfidenceUnsure), nil)
	default:
		return assemble(IntentProduct, reply.New(msgNoProductsFound, reply.ConfidenceLow), nil)
	}
}
