package order

// Order is a customer order as seen by the assistant. UserID holds the
// owner's username. ETA is a date string, empty when unknown.
type Order struct {
	ID     string
	UserID string
	Status string
	ETA    string
}

// HasETA reports whether a delivery estimate is known.
func (o Order) HasETA() bool {
	return o.ETA != ""
}

// Store provides read-only access to orders.
type Store interface {
	// ListByUser returns the orders owned by username in dataset order.
	ListByUser(username string) []Order
	// GetByID returns the order with the given identifier.
	GetByID(id string) (Order, bool)
}

// Latest returns the order with the greatest ETA string, comparing raw
// strings so that an empty ETA sorts as "0". Ties keep the earliest order.
// It reports false when orders is empty.
func Latest(orders []Order) (Order, bool) {
	if len(orders) == 0 {
		return Order{}, false
	}
	best := orders[0]
	for _, o := range orders[1:] {
		if etaKey(o) > etaKey(best) {
			best = o
		}
	}
	return best, true
}

func etaKey(o Order) string {
	if o.ETA == "" {
		return "0"
	}
	return o.ETA
}
