package dataset

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shop-assistant/internal/domain/order"
	"github.com/xenking/shop-assistant/internal/domain/payment"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

func newTestDataset() *Dataset {
	return New(
		[]user.User{
			{ID: "user1", Username: "alice", Email: "alice@example.com"},
			{ID: "user2", Username: "bob", Email: "bob@example.com"},
		},
		[]order.Order{
			{ID: "ORD3", UserID: "alice", Status: "shipped", ETA: "2024-01-05"},
			{ID: "ORD1", UserID: "bob", Status: "delivered"},
			{ID: "ORD2", UserID: "alice", Status: "processing"},
		},
		[]payment.History{
			{Username: "bob", Records: []payment.Record{
				{OrderID: "ORD1", Amount: decimal.NewFromInt(20), Status: "paid", Date: "2024-01-01"},
			}},
		},
		[]product.Product{
			{ID: "p1", Name: "Travel Bag", Rating: 4.8},
		},
	)
}

func TestDataset_Users(t *testing.T) {
	d := newTestDataset()

	u, err := d.UserByID("user1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = d.UserByID("nobody")
	require.ErrorIs(t, err, user.ErrNotFound)
}

func TestDataset_Orders(t *testing.T) {
	d := newTestDataset()

	got := d.ListByUser("alice")
	require.Len(t, got, 2)
	assert.Equal(t, "ORD3", got[0].ID, "dataset order is kept")
	assert.Equal(t, "ORD2", got[1].ID)

	assert.Empty(t, d.ListByUser("carol"))

	o, ok := d.GetByID("ORD1")
	require.True(t, ok)
	assert.Equal(t, "bob", o.UserID)

	_, ok = d.GetByID("ord1")
	assert.False(t, ok, "lookups are case-sensitive")
}

func TestDataset_Payments(t *testing.T) {
	d := newTestDataset()

	got := d.PaymentsForUser("bob")
	require.Len(t, got, 1)
	assert.Equal(t, "ORD1", got[0].OrderID)

	assert.Nil(t, d.PaymentsForUser("alice"))
}

func TestDataset_Products(t *testing.T) {
	d := newTestDataset()

	p, err := d.ProductByID("p1")
	require.NoError(t, err)
	assert.Equal(t, "Travel Bag", p.Name)

	_, err = d.ProductByID("p9")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestDataset_ReturnsCopies(t *testing.T) {
	d := newTestDataset()

	products := d.Products()
	products[0].Name = "mutated"
	assert.Equal(t, "Travel Bag", d.Products()[0].Name)

	records := d.PaymentsForUser("bob")
	records[0].Status = "mutated"
	assert.Equal(t, "paid", d.PaymentsForUser("bob")[0].Status)

	histories := d.Histories()
	histories[0].Records[0].Status = "mutated"
	assert.Equal(t, "paid", d.Histories()[0].Records[0].Status)
}

func TestDataset_InputIsCopied(t *testing.T) {
	orders := []order.Order{{ID: "ORD1", UserID: "alice", Status: "shipped"}}
	d := New(nil, orders, nil, nil)

	orders[0].Status = "mutated"
	o, ok := d.GetByID("ORD1")
	require.True(t, ok)
	assert.Equal(t, "shipped", o.Status)
}

func TestDataset_Stats(t *testing.T) {
	assert.Equal(t, Stats{Users: 2, Orders: 3, Payments: 1, Products: 1}, newTestDataset().Stats())
}
