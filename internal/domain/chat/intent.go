package chat

import "github.com/xenking/shop-assistant/internal/domain/entity"

// Intent is the top-level category selected for a message.
type Intent string

const (
	IntentPolicy   Intent = "policy"
	IntentOrder    Intent = "order"
	IntentPayment  Intent = "payment"
	IntentProduct  Intent = "product"
	IntentGreeting Intent = "greeting"
	IntentThanks   Intent = "thanks"
	IntentHelp     Intent = "help"
	IntentFallback Intent = "fallback"
)

// rule maps a keyword list to an intent.
type rule struct {
	intent   Intent
	keywords entity.List
}

// rules are evaluated in order and the first rule with a keyword contained
// in the message wins. Order and payment keywords overlap in real messages,
// so the order here is part of the behaviour.
var rules = []rule{
	{IntentPolicy, entity.NewList("return", "refund")},
	{IntentOrder, entity.NewList("order", "tracking", "status", "shipment", "delivery", "order number", "order id")},
	{IntentPayment, entity.NewList("payment", "history", "payment status", "payment failed", "payment issues",
		"payment details", "payment method", "payment ")},
	{IntentProduct, entity.NewList("recommend", "suggest", "show", "products", "items", "shop", "buy", "browse",
		"product", "search")},
	{IntentGreeting, entity.NewList("hello", "hi", "hey")},
	{IntentThanks, entity.NewList("thanks", "thank", "thank you", "appreciate", "grateful", "helpful", "nice")},
	{IntentHelp, entity.NewList("help")},
}

// Detect returns the intent of message without producing an answer.
func Detect(message string) Intent {
	for _, r := range rules {
		if r.keywords.Contains(message) {
			return r.intent
		}
	}
	return IntentFallback
}
