// Package dataset holds the read-only customer data the assistant answers
// from. A Dataset is built once at start-up and never mutated, so it can be
// shared by concurrent requests without locking.
package dataset

import (
	"slices"

	"github.com/xenking/shop-assistant/internal/domain/order"
	"github.com/xenking/shop-assistant/internal/domain/payment"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

var (
	_ user.Repository = (*Dataset)(nil)
	_ order.Store     = (*Dataset)(nil)
	_ payment.Store   = (*Dataset)(nil)
	_ product.Catalog = (*Dataset)(nil)
)

// Dataset is an immutable in-memory view over users, orders, payment
// histories and the product catalog. Slices handed out are copies.
type Dataset struct {
	users       []user.User
	usersByID   map[string]int
	orders      []order.Order
	ordersByID  map[string]int
	histories   []payment.History
	historyByID map[string]int
	products    []product.Product
	productByID map[string]int
}

// New builds a Dataset. Input order is kept and defines listing order.
// Later duplicates of an identifier replace earlier ones in lookups.
func New(users []user.User, orders []order.Order, histories []payment.History, products []product.Product) *Dataset {
	d := &Dataset{
		users:       slices.Clone(users),
		usersByID:   make(map[string]int, len(users)),
		orders:      slices.Clone(orders),
		ordersByID:  make(map[string]int, len(orders)),
		histories:   make([]payment.History, len(histories)),
		historyByID: make(map[string]int, len(histories)),
		products:    slices.Clone(products),
		productByID: make(map[string]int, len(products)),
	}
	for i, u := range d.users {
		d.usersByID[u.ID] = i
	}
	for i, o := range d.orders {
		d.ordersByID[o.ID] = i
	}
	for i, h := range histories {
		d.histories[i] = payment.History{Username: h.Username, Records: slices.Clone(h.Records)}
		d.historyByID[h.Username] = i
	}
	for i, p := range d.products {
		d.productByID[p.ID] = i
	}
	return d
}

// UserByID returns the user registered under id.
func (d *Dataset) UserByID(id string) (user.User, error) {
	i, ok := d.usersByID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return d.users[i], nil
}

// Users returns every user in dataset order.
func (d *Dataset) Users() []user.User {
	return slices.Clone(d.users)
}

// Orders returns every order in dataset order.
func (d *Dataset) Orders() []order.Order {
	return slices.Clone(d.orders)
}

// ListByUser returns the orders whose UserID equals username.
func (d *Dataset) ListByUser(username string) []order.Order {
	var out []order.Order
	for _, o := range d.orders {
		if o.UserID == username {
			out = append(out, o)
		}
	}
	return out
}

// GetByID returns the order with the given identifier.
func (d *Dataset) GetByID(id string) (order.Order, bool) {
	i, ok := d.ordersByID[id]
	if !ok {
		return order.Order{}, false
	}
	return d.orders[i], true
}

// Histories returns every payment history in dataset order.
func (d *Dataset) Histories() []payment.History {
	out := make([]payment.History, len(d.histories))
	for i, h := range d.histories {
		out[i] = payment.History{Username: h.Username, Records: slices.Clone(h.Records)}
	}
	return out
}

// PaymentsForUser returns the payment records of username.
func (d *Dataset) PaymentsForUser(username string) []payment.Record {
	i, ok := d.historyByID[username]
	if !ok {
		return nil
	}
	return slices.Clone(d.histories[i].Records)
}

// Products returns the catalog in dataset order.
func (d *Dataset) Products() []product.Product {
	return slices.Clone(d.products)
}

// ProductByID returns a single product by its identifier.
func (d *Dataset) ProductByID(id string) (product.Product, error) {
	i, ok := d.productByID[id]
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return d.products[i], nil
}

// Stats summarizes dataset sizes for logging.
type Stats struct {
	Users    int
	Orders   int
	Payments int
	Products int
}

// Stats returns the number of entities held.
func (d *Dataset) Stats() Stats {
	s := Stats{
		Users:    len(d.users),
		Orders:   len(d.orders),
		Products: len(d.products),
	}
	for _, h := range d.histories {
		s.Payments += len(h.Records)
	}
	return s
}
