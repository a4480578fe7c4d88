package payment

import "github.com/shopspring/decimal"

// Record is a single payment made against an order. Date is kept as the
// raw string from the dataset.
type Record struct {
	OrderID string
	Amount  decimal.Decimal
	Status  string
	Date    string
}

// History is the ordered payment history of one user.
type History struct {
	Username string
	Records  []Record
}

// Store provides read-only access to payment histories.
type Store interface {
	// PaymentsForUser returns the records of username in dataset order.
	PaymentsForUser(username string) []Record
}

// Latest returns the record with the greatest date string. Ties keep the
// earliest record. It reports false when records is empty.
func Latest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if r.Date > best.Date {
			best = r
		}
	}
	return best, true
}

// ForOrder returns the first record paying for orderID.
func ForOrder(records []Record, orderID string) (Record, bool) {
	for _, r := range records {
		if r.OrderID == orderID {
			return r, true
		}
	}
	return Record{}, false
}
