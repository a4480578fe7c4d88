package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/shop-assistant/internal/domain/product"
)

// ListProducts answers GET /api/product with the whole catalog.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	products := h.catalog.Products()

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	e.ArrStart()
	for _, p := range products {
		h.encodeProduct(e, p)
	}
	e.ArrEnd()

	writeJSON(w, http.StatusOK, e.Bytes())
}

// GetProduct answers GET /api/product/{productId}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("productId")

	p, err := h.catalog.ProductByID(id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Get product", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	e := jx.GetEncoder()
	defer jx.PutEncoder(e)
	h.encodeProduct(e, p)

	writeJSON(w, http.StatusOK, e.Bytes())
}
