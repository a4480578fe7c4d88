// Package policy answers return and refund questions.
package policy

import "github.com/xenking/shop-assistant/internal/domain/reply"

const returnPolicy = `• Items can be returned within 30 days of delivery
• Must be in original condition with tags attached
• Free returns on eligible items
• Refund will be processed within 5-7 business days`

// ReturnPolicy returns the store's return policy.
func ReturnPolicy() reply.Reply {
	return reply.New(returnPolicy, reply.ConfidenceHigh)
}
