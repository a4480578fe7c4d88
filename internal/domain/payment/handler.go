package payment

import (
	"fmt"
	"strings"

	"github.com/xenking/shop-assistant/internal/domain/entity"
	"github.com/xenking/shop-assistant/internal/domain/reply"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

const (
	msgNoHistory      = "No payment history found."
	msgContactSupport = "For any payment-related issues, please contact our support team at support@example.com."
	msgNotUnderstood  = "Sorry, I didn't understand your payment query. Please specify your request."

	msgFailureReasons = `Possible reasons for payment failure:
1. Insufficient funds in your account.
2. Invalid payment details (credit card information).
3. Payment gateway timeout or issues.
4. Network connectivity problems.
5. Expired payment method.
Please ensure your payment details are correct and try again. If the problem persists, contact support.`
)

// Handler answers payment questions for the requesting user.
type Handler struct {
	payments Store
}

// NewHandler creates a payment Handler backed by the given Store.
func NewHandler(payments Store) *Handler {
	return &Handler{payments: payments}
}

// Handle answers message on behalf of u.
func (h *Handler) Handle(message string, u user.User) reply.Reply {
	message = strings.ToLower(message)
	records := h.payments.PaymentsForUser(u.Username)

	if strings.Contains(message, "last payment") {
		last, ok := Latest(records)
		if !ok {
			return reply.New(msgNoHistory, reply.ConfidenceLow)
		}
		return reply.New(fmt.Sprintf("Your last payment was for order %s, amount: $%s on %s. Status: %s",
			last.OrderID, last.Amount, last.Date, last.Status), reply.ConfidenceHigh)
	}

	if strings.Contains(message, "all payments") || strings.Contains(message, "payment history") {
		return reply.New(historyText(records), reply.ConfidenceHigh)
	}

	if id, ok := entity.OrderID(message); ok {
		r, found := ForOrder(records, id)
		if !found {
			return reply.New(fmt.Sprintf("No payment information found for order %s.", id), reply.ConfidenceHigh)
		}
		return reply.New(fmt.Sprintf("Payment for order %s: $%s - Status: %s on %s",
			id, r.Amount, r.Status, r.Date), reply.ConfidenceHigh)
	}

	if strings.Contains(message, "payment failed") {
		return reply.New(msgFailureReasons, reply.ConfidenceMedium)
	}

	if strings.Contains(message, "contact support") {
		return reply.New(msgContactSupport, reply.ConfidenceHigh)
	}

	return reply.New(msgNotUnderstood, reply.ConfidenceUnsure)
}

func historyText(records []Record) string {
	if len(records) == 0 {
		return msgNoHistory
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("Order %s: $%s - %s on %s", r.OrderID, r.Amount, r.Status, r.Date)
	}
	return strings.Join(lines, "\n")
}
