package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/shop-assistant/internal/domain/payment"
)

func TestGroupPayments(t *testing.T) {
	rec := func(id string, amount int64) payment.Record {
		return payment.Record{OrderID: id, Amount: decimal.NewFromInt(amount), Status: "paid", Date: "2024-01-01"}
	}

	got := groupPayments([]paymentRow{
		{username: "bob", record: rec("ORD1", 20)},
		{username: "alice", record: rec("ORD9", 5)},
		{username: "bob", record: rec("ORD2", 30)},
	})

	assert.Equal(t, []payment.History{
		{Username: "bob", Records: []payment.Record{rec("ORD1", 20), rec("ORD2", 30)}},
		{Username: "alice", Records: []payment.Record{rec("ORD9", 5)}},
	}, got)

	assert.Nil(t, groupPayments(nil))
}
