package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/shop-assistant/internal/domain/chat"
	"github.com/xenking/shop-assistant/internal/domain/product"
)

var errMissingMessage = errors.New("message is required")

// decodeChatRequest reads {"message": string}. Unknown fields are ignored.
func decodeChatRequest(r io.Reader) (string, error) {
	var (
		message string
		seen    bool
	)
	d := jx.Decode(r, 1024)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "message" {
			return d.Skip()
		}
		v, err := d.Str()
		if err != nil {
			return errors.Wrap(err, "message")
		}
		message, seen = v, true
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err, "invalid request body")
	}
	if !seen {
		return "", errMissingMessage
	}
	return message, nil
}

// encodeChatResponse renders {"response","confidence","products"}.
// products is null when nothing matched.
func (h *Handler) encodeChatResponse(res chat.Result) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("response")
	e.Str(res.Text)
	e.FieldStart("confidence")
	e.Float64(res.Confidence)
	e.FieldStart("products")
	if res.Products == nil {
		e.Null()
	} else {
		e.ArrStart()
		for _, p := range res.Products {
			h.encodeProduct(&e, p)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
	return e.Bytes()
}

func (h *Handler) encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Num(jx.Num(p.Price.String()))
	e.FieldStart("description")
	e.Str(p.Description)
	e.FieldStart("image")
	e.Str(h.imageURL(p.Image))
	e.FieldStart("rating")
	e.Float64(p.Rating)
	e.FieldStart("reviews")
	e.Int(p.Reviews)
	e.ObjEnd()
}

// imageURL joins relative image paths with the configured base URL.
func (h *Handler) imageURL(path string) string {
	if h.imageBaseURL == "" || path == "" ||
		strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(h.imageBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// writeError writes {"code": code, "message": message}.
func writeError(w http.ResponseWriter, code int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(code)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, code, e.Bytes())
}
