package order

import (
	"fmt"
	"strings"

	"github.com/xenking/shop-assistant/internal/domain/entity"
	"github.com/xenking/shop-assistant/internal/domain/reply"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

const (
	msgNoOrders     = "No orders found for your account."
	msgAskForNumber = "Please provide your order number (e.g., ORD123) to check its status."
)

// Handler answers order tracking questions for the requesting user.
type Handler struct {
	orders Store
}

// NewHandler creates an order Handler backed by the given Store.
func NewHandler(orders Store) *Handler {
	return &Handler{orders: orders}
}

// Handle answers message on behalf of u. Branches are tried from the most
// specific phrasing to the least; a user without orders always gets the
// no-orders reply.
func (h *Handler) Handle(message string, u user.User) reply.Reply {
	message = strings.ToLower(message)

	orders := h.orders.ListByUser(u.Username)
	if len(orders) == 0 {
		return reply.New(msgNoOrders, reply.ConfidenceLow)
	}

	switch {
	case strings.Contains(message, "last order status"), strings.Contains(message, "last order tracking"):
		last, _ := Latest(orders)
		return reply.New(withETA(fmt.Sprintf("Your last order (%s) is %s.", last.ID, last.Status), last), reply.ConfidenceHigh)
	case strings.Contains(message, "last order"):
		last, _ := Latest(orders)
		return reply.New(withETA(fmt.Sprintf("Your last order is %s.", last.Status), last), reply.ConfidenceHigh)
	case strings.Contains(message, "order status"), strings.Contains(message, "tracking"):
		lines := make([]string, len(orders))
		for i, o := range orders {
			lines[i] = statusLine(o)
		}
		return reply.New(strings.Join(lines, "\n"), reply.ConfidenceHigh)
	}

	id, ok := entity.OrderID(message)
	if !ok {
		return reply.New(msgAskForNumber, reply.ConfidenceLow)
	}

	o, found := h.orders.GetByID(id)
	if !found || o.UserID != u.Username {
		return reply.New(fmt.Sprintf("Order %s not found for your account.", id), reply.ConfidenceLow)
	}
	return reply.New(withETA(fmt.Sprintf("Order %s is %s.", o.ID, o.Status), o), reply.ConfidenceHigh)
}

func withETA(sentence string, o Order) string {
	if !o.HasETA() {
		return sentence
	}
	return sentence + " Estimated delivery in " + o.ETA + "."
}

func statusLine(o Order) string {
	line := fmt.Sprintf("Order %s is %s", o.ID, o.Status)
	if o.HasETA() {
		line += ". Estimated delivery in " + o.ETA + "."
	}
	return line
}
