// Package handler exposes the assistant over HTTP.
package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/shop-assistant/internal/domain/chat"
	"github.com/xenking/shop-assistant/internal/domain/product"
	"github.com/xenking/shop-assistant/internal/domain/user"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product payloads.
	// When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the chat and catalog endpoints.
type Handler struct {
	router       *chat.Router
	users        user.Repository
	catalog      product.Catalog
	imageBaseURL string

	tracer          trace.Tracer
	classifications metric.Int64Counter
}

// NewHandler constructs a Handler and registers its instruments.
func NewHandler(
	cfg Config,
	router *chat.Router,
	users user.Repository,
	catalog product.Catalog,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Handler, error) {
	const scope = "github.com/xenking/shop-assistant/internal/handler"

	classifications, err := mp.Meter(scope).Int64Counter("assistant.classifications",
		metric.WithDescription("Number of classified chat messages by intent"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create classifications counter")
	}

	return &Handler{
		router:          router,
		users:           users,
		catalog:         catalog,
		imageBaseURL:    cfg.ImageBaseURL,
		tracer:          tp.Tracer(scope),
		classifications: classifications,
	}, nil
}

// Register mounts the handler routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.Chat)
	mux.HandleFunc("GET /api/product", h.ListProducts)
	mux.HandleFunc("GET /api/product/{productId}", h.GetProduct)
}
