package postgres

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/shop-assistant/internal/dataset"
)

const (
	truncateSQL = `TRUNCATE users, orders, payments, products`

	insertUserSQL = `INSERT INTO users (id, username, email, position) VALUES ($1, $2, $3, $4)`

	insertOrderSQL = `INSERT INTO orders (id, user_id, status, eta, position) VALUES ($1, $2, $3, $4, $5)`

	insertPaymentSQL = `INSERT INTO payments (username, position, order_id, amount, status, paid_on)
		VALUES ($1, $2, $3, $4, $5, $6)`

	insertProductSQL = `INSERT INTO products (id, name, price, description, image, rating, reviews, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// SeedResult reports how many rows of each kind were written.
type SeedResult = dataset.Stats

// Seed replaces the stored dataset with ds inside a single transaction.
// Positions follow the dataset order so LoadDataset returns rows as seeded.
func Seed(ctx context.Context, pool *pgxpool.Pool, ds *dataset.Dataset) (SeedResult, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return SeedResult{}, errors.Wrap(err, "beginning seed transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, truncateSQL); err != nil {
		return SeedResult{}, errors.Wrap(err, "truncating tables")
	}

	batch := &pgx.Batch{}
	for i, u := range ds.Users() {
		batch.Queue(insertUserSQL, u.ID, u.Username, u.Email, i)
	}
	for i, o := range ds.Orders() {
		batch.Queue(insertOrderSQL, o.ID, o.UserID, o.Status, o.ETA, i)
	}
	position := 0
	for _, h := range ds.Histories() {
		for _, r := range h.Records {
			batch.Queue(insertPaymentSQL, h.Username, position, r.OrderID, r.Amount, r.Status, r.Date)
			position++
		}
	}
	for i, p := range ds.Products() {
		batch.Queue(insertProductSQL, p.ID, p.Name, p.Price, p.Description, p.Image, p.Rating, p.Reviews, i)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return SeedResult{}, errors.Wrap(err, "inserting dataset")
	}
	if err := tx.Commit(ctx); err != nil {
		return SeedResult{}, errors.Wrap(err, "committing seed transaction")
	}

	return ds.Stats(), nil
}
