// Package jsonfile loads the assistant dataset from JSON files in a
// directory. Each file may be gzip-compressed with a ".gz" suffix.
package jsonfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shop-assistant/internal/dataset"
	"github.com/xenking/shop-assistant/internal/domain/order"
	"github.com/xenking/shop-assistant/internal/domain/payment"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

// File base names inside the dataset directory.
const (
	UsersFile    = "users"
	OrdersFile   = "orders"
	PaymentsFile = "payments"
	ProductsFile = "products"
)

// ErrMissingFile is returned when neither NAME.json nor NAME.json.gz exists.
var ErrMissingFile = errors.New("dataset file not found")

// DecodeError reports malformed content in a dataset file.
type DecodeError struct {
	File string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.File, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Load reads users, orders, payments and products from dir concurrently and
// builds a Dataset. JSON object key order is preserved.
func Load(ctx context.Context, dir string) (*dataset.Dataset, error) {
	var (
		users     []user.User
		orders    []order.Order
		histories []payment.History
		products  []product.Product
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = decodeFile(ctx, dir, UsersFile, decodeUsers)
		return err
	})
	g.Go(func() (err error) {
		orders, err = decodeFile(ctx, dir, OrdersFile, decodeOrders)
		return err
	})
	g.Go(func() (err error) {
		histories, err = decodeFile(ctx, dir, PaymentsFile, decodePayments)
		return err
	})
	g.Go(func() (err error) {
		products, err = decodeFile(ctx, dir, ProductsFile, decodeProducts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dataset.New(users, orders, histories, products), nil
}

func decodeFile[T any](ctx context.Context, dir, name string, decode func(d *jx.Decoder) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	rc, path, err := Open(dir, name)
	if err != nil {
		return zero, err
	}
	defer func() { _ = rc.Close() }()

	v, err := decode(jx.Decode(rc, 4096))
	if err != nil {
		return zero, &DecodeError{File: path, Err: err}
	}
	return v, nil
}

// Open opens dir/NAME.json, or dir/NAME.json.gz through a gzip reader. It
// returns the path that was opened.
func Open(dir, name string) (io.ReadCloser, string, error) {
	plain := filepath.Join(dir, name+".json")
	if f, err := os.Open(plain); err == nil {
		return f, plain, nil
	} else if !os.IsNotExist(err) {
		return nil, plain, errors.Wrapf(err, "open %s", plain)
	}

	compressed := plain + ".gz"
	f, err := os.Open(compressed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, plain, errors.Wrapf(ErrMissingFile, "%s", plain)
		}
		return nil, compressed, errors.Wrapf(err, "open %s", compressed)
	}
	rc, err := OpenGzip(f)
	if err != nil {
		_ = f.Close()
		return nil, compressed, errors.Wrapf(err, "create gzip reader for %s", compressed)
	}
	return rc, compressed, nil
}

// OpenGzip wraps f in a parallel gzip reader. Closing the result closes f.
func OpenGzip(f io.ReadCloser) (io.ReadCloser, error) {
	gz, err := pgzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	return &gzipFile{Reader: gz, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file io.Closer
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return gzErr
}

// users.json: {"user1": {"username": "...", "email": "..."}, ...}
func decodeUsers(d *jx.Decoder) ([]user.User, error) {
	var users []user.User
	err := d.Obj(func(d *jx.Decoder, id string) error {
		u := user.User{ID: id}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "username":
				u.Username, err = d.Str()
			case "email":
				u.Email, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return errors.Wrapf(err, "user %s", id)
		}
		users = append(users, u)
		return nil
	})
	return users, err
}

// orders.json: {"ORD1": {"user_id": "...", "status": "...", "eta": "..."|null}, ...}
func decodeOrders(d *jx.Decoder) ([]order.Order, error) {
	var orders []order.Order
	err := d.Obj(func(d *jx.Decoder, id string) error {
		o := order.Order{ID: id}
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "user_id":
				o.UserID, err = d.Str()
			case "status":
				o.Status, err = d.Str()
			case "eta":
				o.ETA, err = optionalStr(d)
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return errors.Wrapf(err, "order %s", id)
		}
		orders = append(orders, o)
		return nil
	})
	return orders, err
}

// payments.json: {"alice": [{"order_id": "...", "amount": 20, "status": "...", "date": "..."}], ...}
func decodePayments(d *jx.Decoder) ([]payment.History, error) {
	var histories []payment.History
	err := d.Obj(func(d *jx.Decoder, username string) error {
		h := payment.History{Username: username}
		if err := d.Arr(func(d *jx.Decoder) error {
			var r payment.Record
			if err := d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "order_id":
					r.OrderID, err = d.Str()
				case "amount":
					r.Amount, err = decodeDecimal(d)
				case "status":
					r.Status, err = d.Str()
				case "date":
					r.Date, err = d.Str()
				default:
					err = d.Skip()
				}
				return err
			}); err != nil {
				return err
			}
			h.Records = append(h.Records, r)
			return nil
		}); err != nil {
			return errors.Wrapf(err, "payments of %s", username)
		}
		histories = append(histories, h)
		return nil
	})
	return histories, err
}

// products.json: [{"id": "...", "name": "...", "price": 1.5, "description": "...",
// "image": "...", "rating": 4.5, "reviews": 10}, ...]
func decodeProducts(d *jx.Decoder) ([]product.Product, error) {
	var products []product.Product
	err := d.Arr(func(d *jx.Decoder) error {
		var p product.Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "id":
				p.ID, err = decodeID(d)
			case "name":
				p.Name, err = d.Str()
			case "price":
				p.Price, err = decodeDecimal(d)
			case "description":
				p.Description, err = optionalStr(d)
			case "image":
				p.Image, err = optionalStr(d)
			case "rating":
				p.Rating, err = d.Float64()
			case "reviews":
				p.Reviews, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		}); err != nil {
			return errors.Wrapf(err, "product %d", len(products))
		}
		products = append(products, p)
		return nil
	})
	return products, err
}

func optionalStr(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

// decodeID accepts both string and numeric identifiers.
func decodeID(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Number {
		n, err := d.Num()
		return string(n), err
	}
	return d.Str()
}

// decodeDecimal accepts a JSON number or a numeric string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		raw = s
	default:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		raw = string(n)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse decimal %q", raw)
	}
	return v, nil
}
