package postgres

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shop-assistant/internal/dataset"
	"github.com/xenking/shop-assistant/internal/domain/order"
	"github.com/xenking/shop-assistant/internal/domain/payment"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

const (
	listUsersSQL = `SELECT id, username, email FROM users ORDER BY position, id`

	listOrdersSQL = `SELECT id, user_id, status, eta FROM orders ORDER BY position, id`

	listPaymentsSQL = `SELECT username, order_id, amount, status, paid_on
		FROM payments ORDER BY position, username`

	listProductsSQL = `SELECT id, name, price, description, image, rating, reviews
		FROM products ORDER BY position, id`
)

// LoadDataset reads all four tables concurrently and builds an immutable
// dataset. Rows are returned in their seeded order.
func LoadDataset(ctx context.Context, pool *pgxpool.Pool) (*dataset.Dataset, error) {
	var (
		users    []user.User
		orders   []order.Order
		payments []paymentRow
		products []product.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = collect(gctx, pool, listUsersSQL, scanUser)
		if err != nil {
			return errors.Wrap(err, "listing users")
		}
		return nil
	})
	g.Go(func() (err error) {
		orders, err = collect(gctx, pool, listOrdersSQL, scanOrder)
		if err != nil {
			return errors.Wrap(err, "listing orders")
		}
		return nil
	})
	g.Go(func() (err error) {
		payments, err = collect(gctx, pool, listPaymentsSQL, scanPayment)
		if err != nil {
			return errors.Wrap(err, "listing payments")
		}
		return nil
	})
	g.Go(func() (err error) {
		products, err = collect(gctx, pool, listProductsSQL, scanProduct)
		if err != nil {
			return errors.Wrap(err, "listing products")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dataset.New(users, orders, groupPayments(payments), products), nil
}

func collect[T any](ctx context.Context, pool *pgxpool.Pool, query string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scan)
}

type paymentRow struct {
	username string
	record   payment.Record
}

// groupPayments folds flat payment rows into per-user histories. Users appear
// in the order of their first payment row.
func groupPayments(rows []paymentRow) []payment.History {
	var (
		histories []payment.History
		index     = make(map[string]int)
	)
	for _, r := range rows {
		i, ok := index[r.username]
		if !ok {
			i = len(histories)
			index[r.username] = i
			histories = append(histories, payment.History{Username: r.username})
		}
		histories[i].Records = append(histories[i].Records, r.record)
	}
	return histories
}

func scanUser(row pgx.CollectableRow) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Username, &u.Email)
	return u, err
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(&o.ID, &o.UserID, &o.Status, &o.ETA)
	return o, err
}

func scanPayment(row pgx.CollectableRow) (paymentRow, error) {
	var p paymentRow
	err := row.Scan(&p.username, &p.record.OrderID, &p.record.Amount, &p.record.Status, &p.record.Date)
	return p, err
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Image, &p.Rating, &p.Reviews)
	return p, err
}
